package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/credit"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/installment"
)

// PurchaseHandler compras a proveedor, abonos directos y planes de cuotas.
type PurchaseHandler struct {
	responder
	ledger *credit.PurchaseLedgerUseCase
	plans  *installment.UseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(ledger *credit.PurchaseLedgerUseCase, plans *installment.UseCase, log zerolog.Logger) *PurchaseHandler {
	return &PurchaseHandler{responder: responder{log: log}, ledger: ledger, plans: plans}
}

// Create godoc
// @Summary      Registrar compra a proveedor
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Datos"
// @Success      201  {object}  dto.PurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.ledger.CreatePurchase(c.UserContext(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GetByID godoc
// @Summary      Obtener compra con abonos
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.ledger.GetPurchase(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(p)
}

// RecordPayment godoc
// @Summary      Abono directo a compra
// @Description  Solo para compras sin plan de cuotas
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Param        Idempotency-Key  header  string  false  "Llave contra doble envío"
// @Param        body  body  dto.PaymentRequest  true  "Datos"
// @Success      201  {object}  dto.PaymentResultResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/payments [post]
func (h *PurchaseHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.RecordPayment(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// CreatePlan godoc
// @Summary      Crear plan de cuotas
// @Tags         installments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Param        body  body  dto.CreatePlanRequest  true  "Datos"
// @Success      201  {object}  dto.InstallmentPlanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/installment-plan [post]
func (h *PurchaseHandler) CreatePlan(c *fiber.Ctx) error {
	var in dto.CreatePlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	plan, err := h.plans.CreatePlan(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// GetPlan godoc
// @Summary      Obtener plan de cuotas de la compra
// @Tags         installments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.InstallmentPlanResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/installment-plan [get]
func (h *PurchaseHandler) GetPlan(c *fiber.Ctx) error {
	plan, err := h.plans.GetPlan(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(plan)
}

// Recompute godoc
// @Summary      Recalcular saldo de la compra desde sus cuotas
// @Tags         installments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/recompute [post]
func (h *PurchaseHandler) Recompute(c *fiber.Ctx) error {
	p, err := h.plans.RecomputePurchase(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(p)
}
