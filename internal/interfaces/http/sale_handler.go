package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/checkout"
	"github.com/jhoicas/Farmacia-api/internal/application/credit"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// SaleHandler cierre de ventas y abonos a ventas a crédito.
type SaleHandler struct {
	responder
	checkout *checkout.UseCase
	ledger   *credit.SaleLedgerUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(co *checkout.UseCase, ledger *credit.SaleLedgerUseCase, log zerolog.Logger) *SaleHandler {
	return &SaleHandler{responder: responder{log: log}, checkout: co, ledger: ledger}
}

// Create godoc
// @Summary      Cerrar venta
// @Description  Con pago inicial menor al total la venta queda a crédito
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Llave contra doble envío"
// @Param        body  body  dto.CheckoutRequest  true  "Datos"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sale, err := h.checkout.Checkout(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// GetByID godoc
// @Summary      Obtener venta con abonos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.ledger.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(sale)
}

// RecordPayment godoc
// @Summary      Registrar abono a venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Param        Idempotency-Key  header  string  false  "Llave contra doble envío"
// @Param        body  body  dto.PaymentRequest  true  "Datos"
// @Success      201  {object}  dto.PaymentResultResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/payments [post]
func (h *SaleHandler) RecordPayment(c *fiber.Ctx) error {
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
