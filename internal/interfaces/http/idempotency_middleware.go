package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
)

// HeaderIdempotencyKey header opcional de los endpoints de pago.
const HeaderIdempotencyKey = "Idempotency-Key"

// Idempotency rechaza con 409 un segundo envío con la misma Idempotency-Key
// mientras dure el TTL. Sin store o sin header la petición pasa tal cual.
// Si la petición falla la llave se libera para permitir el reintento.
//
// Debe usarse DESPUÉS de AuthMiddleware: la llave se guarda por usuario y ruta.
func Idempotency(store ports.IdempotencyStore, ttl time.Duration, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if store == nil || key == "" {
			return c.Next()
		}
		scoped := GetUserID(c) + ":" + c.Method() + ":" + c.Path() + ":" + key

		ok, err := store.Reserve(c.UserContext(), scoped, ttl)
		if err != nil {
			// Sin Redis no se bloquea la caja: se procesa sin protección.
			log.Warn().Err(err).Str("path", c.Path()).Msg("idempotencia no disponible")
			return c.Next()
		}
		if !ok {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    "DUPLICATE_REQUEST",
				Message: "ya se recibió una petición con esta Idempotency-Key",
			})
		}

		err = c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			if rerr := store.Release(c.UserContext(), scoped); rerr != nil {
				log.Warn().Err(rerr).Msg("liberar llave de idempotencia")
			}
		}
		return err
	}
}
