package ports

import (
	"context"
	"time"
)

// IdempotencyStore reserva llaves de idempotencia de los endpoints de pago.
// Reserve devuelve false si la llave ya estaba tomada (envío duplicado).
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
