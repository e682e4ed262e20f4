package dto

import "github.com/shopspring/decimal"

// LoyaltyBalanceResponse saldo de puntos.
type LoyaltyBalanceResponse struct {
	CustomerID string          `json:"customer_id"`
	Points     decimal.Decimal `json:"points"`
}

// LoyaltyAdjustRequest ajuste manual de puntos (positivo o negativo).
type LoyaltyAdjustRequest struct {
	Delta decimal.Decimal `json:"delta"`
}
