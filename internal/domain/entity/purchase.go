package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase compra a proveedor con saldo por pagar. DueAmount y PaymentStatus
// son agregados denormalizados: con plan de cuotas se recalculan desde las cuotas.
type Purchase struct {
	ID                 string
	SupplierID         string
	InvoiceNumber      string
	PurchaseDate       time.Time
	TotalAmount        decimal.Decimal
	InitialPayment     decimal.Decimal
	DueAmount          decimal.Decimal
	PaymentStatus      string
	HasInstallmentPlan bool
	InstallmentPlanID  string
	PaymentHistory     []PaymentRecord // abonos directos (sin plan de cuotas)
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
