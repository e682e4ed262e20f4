package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/installment"
)

// InstallmentHandler pagos de cuotas y consulta de vencidas.
type InstallmentHandler struct {
	responder
	uc *installment.UseCase
}

// NewInstallmentHandler construye el handler.
func NewInstallmentHandler(uc *installment.UseCase, log zerolog.Logger) *InstallmentHandler {
	return &InstallmentHandler{responder: responder{log: log}, uc: uc}
}

// Pay godoc
// @Summary      Pagar cuota
// @Description  Acepta pagos parciales hasta completar la cuota
// @Tags         installments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID del plan"
// @Param        number  path  int  true  "Número de cuota"
// @Param        Idempotency-Key  header  string  false  "Llave contra doble envío"
// @Param        body  body  dto.PaymentRequest  true  "Datos"
// @Success      201  {object}  dto.InstallmentPaymentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/installment-plans/{id}/installments/{number}/payments [post]
func (h *InstallmentHandler) Pay(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "número de cuota inválido"})
	}
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.PayInstallment(c.UserContext(), c.Params("id"), number, in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Overdue godoc
// @Summary      Listar cuotas vencidas
// @Tags         installments
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OverdueInstallmentResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/installments/overdue [get]
func (h *InstallmentHandler) Overdue(c *fiber.Ctx) error {
	list, err := h.uc.OverdueInstallments(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(list)
}
