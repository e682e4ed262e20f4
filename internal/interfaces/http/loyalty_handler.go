package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/loyalty"
)

// LoyaltyHandler saldo de puntos y ajustes manuales.
type LoyaltyHandler struct {
	responder
	ledger *loyalty.Ledger
}

// NewLoyaltyHandler construye el handler.
func NewLoyaltyHandler(ledger *loyalty.Ledger, log zerolog.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{responder: responder{log: log}, ledger: ledger}
}

// Balance godoc
// @Summary      Saldo de puntos del cliente
// @Tags         loyalty
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.LoyaltyBalanceResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/loyalty [get]
func (h *LoyaltyHandler) Balance(c *fiber.Ctx) error {
	res, err := h.ledger.Balance(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(res)
}

// Adjust godoc
// @Summary      Ajuste manual de puntos
// @Description  Solo administradores; el saldo nunca queda negativo
// @Tags         loyalty
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID del cliente"
// @Param        body  body  dto.LoyaltyAdjustRequest  true  "Datos"
// @Success      200  {object}  dto.LoyaltyBalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/loyalty/adjustments [post]
func (h *LoyaltyHandler) Adjust(c *fiber.Ctx) error {
	var in dto.LoyaltyAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.AdjustBalance(c.UserContext(), c.Params("id"), in.Delta)
	if err != nil {
		return h.writeError(c, err)
	}
	h.log.Info().
		Str("user_id", GetUserID(c)).
		Str("branch_id", GetBranchID(c)).
		Str("customer_id", res.CustomerID).
		Msg("ajuste de puntos por API")
	return c.JSON(res)
}
