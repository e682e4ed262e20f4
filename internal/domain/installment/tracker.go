package installment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/ledger"
	"github.com/jhoicas/Farmacia-api/internal/domain/money"
)

// PayResult estado de la cuota tras un abono.
type PayResult struct {
	Installment entity.Installment
	IsPaid      bool
	Remaining   decimal.Decimal
}

// Pay registra un abono sobre la cuota number. Un abono menor al saldo de la
// cuota se acumula en PaidAmount y deja la cuota en partial (u overdue si ya
// estaba vencida); la cuota pasa a paid cuando PaidAmount == Amount.
func Pay(plan *entity.InstallmentPlan, number int, p ledger.Payment, now time.Time) (PayResult, error) {
	if plan == nil {
		return PayResult{}, domain.ErrNotFound
	}
	inst, ok := plan.Installment(number)
	if !ok {
		return PayResult{}, domain.ErrNotFound
	}
	if inst.Status == entity.InstallmentPaid {
		return PayResult{}, domain.ErrAlreadyPaid
	}
	p, err := ledger.Normalize(p, now)
	if err != nil {
		return PayResult{}, err
	}
	if p.Amount.GreaterThan(inst.Remaining()) {
		return PayResult{}, domain.ErrExceedsInstallment
	}

	inst.PaidAmount = money.Round2(inst.PaidAmount.Add(p.Amount))
	inst.PaymentMethod = p.PaymentMethod
	if p.Notes != "" {
		inst.Notes = p.Notes
	}
	paidAt := p.Date
	inst.PaidDate = &paidAt
	switch {
	case inst.PaidAmount.Equal(inst.Amount):
		inst.Status = entity.InstallmentPaid
	case inst.Status == entity.InstallmentOverdue:
		// sigue vencida hasta completar el pago
	default:
		inst.Status = entity.InstallmentPartial
	}
	plan.UpdatedAt = now
	return PayResult{
		Installment: *inst,
		IsPaid:      inst.Status == entity.InstallmentPaid,
		Remaining:   inst.Remaining(),
	}, nil
}

// Aggregate totales de la compra derivados del plan.
type Aggregate struct {
	TotalPaid    decimal.Decimal
	RemainingDue decimal.Decimal
	Status       string
}

// Recompute deriva los agregados de la compra desde el estado actual de las
// cuotas. Es idempotente: no depende de cuántas veces ni en qué orden se invoque.
func Recompute(plan *entity.InstallmentPlan, purchaseTotal decimal.Decimal) Aggregate {
	paid := decimal.Zero
	for _, inst := range plan.Installments {
		paid = paid.Add(inst.PaidAmount)
	}
	paid = money.Round2(paid)
	remaining := money.Max0(money.Round2(plan.TotalAmount.Sub(paid)))

	status := entity.PaymentStatusUnpaid
	switch {
	case !remaining.IsPositive():
		status = entity.PaymentStatusPaid
	case paid.IsPositive() || remaining.LessThan(purchaseTotal):
		// también cuenta lo pagado antes de crear el plan
		status = entity.PaymentStatusPartial
	}
	return Aggregate{TotalPaid: paid, RemainingDue: remaining, Status: status}
}

// ApplyTo copia los agregados a la compra.
func (a Aggregate) ApplyTo(pu *entity.Purchase, now time.Time) {
	pu.DueAmount = a.RemainingDue
	pu.PaymentStatus = a.Status
	pu.UpdatedAt = now
}
