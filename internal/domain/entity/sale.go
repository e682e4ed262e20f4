package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de paciente.
const (
	PatientTypeLocal   = "local"
	PatientTypeForeign = "foreign"
)

// Sale registro inmutable de un carrito cobrado. Solo se modifica agregando
// abonos a PaymentHistory; nunca se reescriben los totales ni se elimina.
// Invariante: DueAmount = TotalAmount - InitialPayment - Σ PaymentHistory ≥ 0.
type Sale struct {
	ID                 string
	CustomerID         string // vacío para ventas de mostrador
	PatientType        string
	OriginalAmount     decimal.Decimal // subtotal antes de descuento de carrito y puntos
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	LoyaltyRedeemed    decimal.Decimal
	LoyaltyEarned      decimal.Decimal
	TotalAmount        decimal.Decimal // a pagar
	TotalCost          decimal.Decimal
	Profit             decimal.Decimal // puede ser negativo
	InitialPayment     decimal.Decimal
	DueAmount          decimal.Decimal
	PaymentMethod      string
	PaymentHistory     []PaymentRecord
	IsFreeBill         bool
	IsInsurancePatient bool
	Items              []SaleItem
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SaleItem línea de la venta tal como quedó valorada en caja.
type SaleItem struct {
	ID                     string
	SaleID                 string
	Kind                   string // inventory | secondary
	ItemID                 string // lote (inventory) o ítem secundario
	Name                   string
	UnitQuantity           decimal.Decimal
	SubUnitQuantity        decimal.Decimal
	UnitPrice              decimal.Decimal
	SubUnitPrice           decimal.Decimal
	ItemDiscountPercentage decimal.Decimal
	IsFree                 bool
	IsPriceAdjusted        bool
	OriginalUnitPrice      decimal.Decimal
	TotalPrice             decimal.Decimal
	TotalCost              decimal.Decimal
}
