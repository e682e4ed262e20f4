package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer cliente de la farmacia con descuento permanente y saldo de puntos.
// LoyaltyPoints solo se modifica a través del ledger de fidelización (ajuste atómico).
type Customer struct {
	ID                 string
	Name               string
	Phone              string
	DiscountPercentage decimal.Decimal // descuento por defecto del cliente (solo lectura en caja)
	LoyaltyPoints      decimal.Decimal // 1 punto = 1 unidad monetaria
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasStandingDiscount indica si el cliente tiene descuento permanente.
func (c *Customer) HasStandingDiscount() bool {
	return c != nil && c.DiscountPercentage.IsPositive()
}
