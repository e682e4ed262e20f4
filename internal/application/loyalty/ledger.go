// Package loyalty expone el saldo de puntos de fidelización y su ajuste manual.
package loyalty

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/money"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Ledger caso de uso de puntos. Acumulación y canje de una venta los aplica
// checkout dentro de su propia transacción; aquí solo consulta y ajuste manual.
type Ledger struct {
	customers repository.CustomerRepository
	log       zerolog.Logger
}

// NewLedger construye el caso de uso.
func NewLedger(customers repository.CustomerRepository, log zerolog.Logger) *Ledger {
	return &Ledger{customers: customers, log: log}
}

// Balance saldo actual del cliente.
func (l *Ledger) Balance(ctx context.Context, customerID string) (*dto.LoyaltyBalanceResponse, error) {
	c, err := l.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.LoyaltyBalanceResponse{CustomerID: c.ID, Points: c.LoyaltyPoints}, nil
}

// AdjustBalance suma delta (positivo o negativo) al saldo en una escritura atómica.
// Un saldo resultante negativo se rechaza con ErrInsufficientPoints.
func (l *Ledger) AdjustBalance(ctx context.Context, customerID string, delta decimal.Decimal) (*dto.LoyaltyBalanceResponse, error) {
	if customerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if delta.IsZero() || !delta.Equal(money.Round2(delta)) {
		return nil, fmt.Errorf("%w: ajuste de puntos %s", domain.ErrInvalidAmount, delta)
	}
	balance, err := l.customers.AdjustLoyaltyPoints(ctx, customerID, delta)
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("customer_id", customerID).
		Str("delta", delta.String()).
		Str("balance", balance.String()).
		Msg("ajuste manual de puntos")
	return &dto.LoyaltyBalanceResponse{CustomerID: customerID, Points: balance}, nil
}
