package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frecuencias de un plan de cuotas.
const (
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyCustom  = "custom"
)

// Estados de una cuota. Overdue es derivado (recalculable) y nunca terminal.
const (
	InstallmentPending = "pending"
	InstallmentPartial = "partial"
	InstallmentOverdue = "overdue"
	InstallmentPaid    = "paid"
)

// InstallmentPlan cronograma de pagos de una compra (relación 1:1).
// TotalAmount es el saldo de la compra al crear el plan y no cambia.
// Invariante: Σ Installments.Amount == TotalAmount.
type InstallmentPlan struct {
	ID                string
	PurchaseID        string
	TotalAmount       decimal.Decimal
	InstallmentCount  int
	InstallmentAmount decimal.Decimal // cuota nominal; la última absorbe el residuo
	Frequency         string
	StartDate         time.Time
	Installments      []Installment
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Installment cuota individual. PaidAmount acumula abonos parciales.
type Installment struct {
	InstallmentNumber int // 1-based
	DueDate           time.Time
	Amount            decimal.Decimal
	Status            string
	PaidAmount        decimal.Decimal
	PaidDate          *time.Time
	PaymentMethod     string
	Notes             string
}

// Remaining saldo pendiente de la cuota.
func (i Installment) Remaining() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// Installment busca una cuota por número.
func (p *InstallmentPlan) Installment(number int) (*Installment, bool) {
	for i := range p.Installments {
		if p.Installments[i].InstallmentNumber == number {
			return &p.Installments[i], true
		}
	}
	return nil, false
}
