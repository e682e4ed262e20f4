package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// responder lo embeben los handlers para responder errores de forma uniforme.
type responder struct {
	log zerolog.Logger
}

type errorMapping struct {
	err    error
	status int
	code   string
}

// El orden importa: se usa la primera coincidencia de errors.Is.
var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrMissingCustomDate, fiber.StatusBadRequest, "MISSING_CUSTOM_DATE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidAmount, fiber.StatusUnprocessableEntity, "INVALID_AMOUNT"},
	{domain.ErrExceedsDue, fiber.StatusUnprocessableEntity, "EXCEEDS_DUE"},
	{domain.ErrExceedsInstallment, fiber.StatusUnprocessableEntity, "EXCEEDS_INSTALLMENT"},
	{domain.ErrNothingToPlan, fiber.StatusUnprocessableEntity, "NOTHING_TO_PLAN"},
	{domain.ErrInsufficientPoints, fiber.StatusUnprocessableEntity, "INSUFFICIENT_POINTS"},
	{domain.ErrAlreadyPaid, fiber.StatusConflict, "ALREADY_PAID"},
	{domain.ErrPatientTypeLocked, fiber.StatusConflict, "PATIENT_TYPE_LOCKED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// writeError traduce errores de dominio a status HTTP + ErrorResponse.
// Lo que no es de dominio se responde 500 sin exponer el detalle.
func (r responder) writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	r.log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
