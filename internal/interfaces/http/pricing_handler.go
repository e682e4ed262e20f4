package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/checkout"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// PricingHandler cotización de carritos y política de descuentos (sin efectos).
type PricingHandler struct {
	responder
	uc *checkout.UseCase
}

// NewPricingHandler construye el handler.
func NewPricingHandler(uc *checkout.UseCase, log zerolog.Logger) *PricingHandler {
	return &PricingHandler{responder: responder{log: log}, uc: uc}
}

// Quote godoc
// @Summary      Cotizar carrito
// @Description  Valora el carrito sin persistir nada
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartRequest  true  "Datos"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pricing/quote [post]
func (h *PricingHandler) Quote(c *fiber.Ctx) error {
	var in dto.CartRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	q, err := h.uc.Quote(c.UserContext(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(q)
}

// Discount godoc
// @Summary      Aplicar, quitar o preseleccionar descuento
// @Description  Recorta al máximo configurado y devuelve advertencias
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DiscountRequest  true  "Datos"
// @Success      200  {object}  dto.DiscountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/pricing/discount [post]
func (h *PricingHandler) Discount(c *fiber.Ctx) error {
	var in dto.DiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.ApplyDiscount(in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(res)
}
