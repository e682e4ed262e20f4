package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash        = "cash"
	PaymentMethodCard        = "card"
	PaymentMethodBankDeposit = "bank_deposit"
	PaymentMethodMobile      = "mobile"
	PaymentMethodCheque      = "cheque"
)

// ValidPaymentMethod indica si el método es uno de los soportados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankDeposit, PaymentMethodMobile, PaymentMethodCheque:
		return true
	}
	return false
}

// Estados de pago de ventas y compras.
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// PaymentRecord abono posterior a la creación de una venta o compra.
type PaymentRecord struct {
	ID            string
	Amount        decimal.Decimal
	Date          time.Time
	PaymentMethod string
	Notes         string
}
