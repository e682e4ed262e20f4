package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia de clientes (solo lo que usa caja).
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// AdjustLoyaltyPoints suma delta al saldo en una sola escritura atómica y
	// devuelve el nuevo saldo. Falla con ErrInsufficientPoints si quedaría negativo.
	AdjustLoyaltyPoints(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
}
