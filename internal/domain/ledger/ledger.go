// Package ledger contiene las reglas de liquidación de saldos a crédito:
// ventas con pago inicial y abonos posteriores, y compras a proveedor sin plan de cuotas.
//
// Máquina de estados: unpaid (due == total) → partial (0 < due < total) → paid (due == 0).
// Paid es terminal.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/money"
)

// Payment abono solicitado por el caller.
type Payment struct {
	Amount        decimal.Decimal
	PaymentMethod string // vacío = cash
	Notes         string
	Date          time.Time // cero = ahora
}

// Result estado tras registrar un abono.
type Result struct {
	IsPaid       bool
	NewDueAmount decimal.Decimal
	Status       string
	Record       entity.PaymentRecord
}

// StatusOf estado derivado de total y saldo.
func StatusOf(total, due decimal.Decimal) string {
	switch {
	case !due.IsPositive():
		return entity.PaymentStatusPaid
	case due.GreaterThanOrEqual(total):
		return entity.PaymentStatusUnpaid
	default:
		return entity.PaymentStatusPartial
	}
}

// Normalize valida monto y método y completa valores por defecto.
// Los montos se comparan exactos: no hay tolerancia de redondeo.
func Normalize(p Payment, now time.Time) (Payment, error) {
	if !p.Amount.IsPositive() || !p.Amount.Equal(money.Round2(p.Amount)) {
		return Payment{}, domain.ErrInvalidAmount
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = entity.PaymentMethodCash
	}
	if !entity.ValidPaymentMethod(p.PaymentMethod) {
		return Payment{}, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, p.PaymentMethod)
	}
	if p.Date.IsZero() {
		p.Date = now
	}
	return p, nil
}

// apply valida contra el saldo y devuelve el nuevo saldo y el registro. No muta nada.
func apply(due decimal.Decimal, p Payment, now time.Time) (decimal.Decimal, entity.PaymentRecord, error) {
	p, err := Normalize(p, now)
	if err != nil {
		return due, entity.PaymentRecord{}, err
	}
	if p.Amount.GreaterThan(due) {
		return due, entity.PaymentRecord{}, domain.ErrExceedsDue
	}
	rec := entity.PaymentRecord{
		ID:            uuid.New().String(),
		Amount:        p.Amount,
		Date:          p.Date,
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
	}
	return money.Round2(due.Sub(p.Amount)), rec, nil
}

// RecordSalePayment agrega un abono a la venta. Si falla, la venta no cambia.
func RecordSalePayment(s *entity.Sale, p Payment, now time.Time) (Result, error) {
	if s == nil {
		return Result{}, domain.ErrNotFound
	}
	newDue, rec, err := apply(s.DueAmount, p, now)
	if err != nil {
		return Result{}, err
	}
	s.PaymentHistory = append(s.PaymentHistory, rec)
	s.DueAmount = newDue
	s.UpdatedAt = now
	return Result{
		IsPaid:       newDue.IsZero(),
		NewDueAmount: newDue,
		Status:       StatusOf(s.TotalAmount, newDue),
		Record:       rec,
	}, nil
}

// RecordPurchasePayment abono directo a una compra sin plan de cuotas.
func RecordPurchasePayment(pu *entity.Purchase, p Payment, now time.Time) (Result, error) {
	if pu == nil {
		return Result{}, domain.ErrNotFound
	}
	if pu.HasInstallmentPlan {
		return Result{}, fmt.Errorf("%w: la compra tiene plan de cuotas", domain.ErrConflict)
	}
	newDue, rec, err := apply(pu.DueAmount, p, now)
	if err != nil {
		return Result{}, err
	}
	pu.PaymentHistory = append(pu.PaymentHistory, rec)
	pu.DueAmount = newDue
	pu.PaymentStatus = StatusOf(pu.TotalAmount, newDue)
	pu.UpdatedAt = now
	return Result{
		IsPaid:       newDue.IsZero(),
		NewDueAmount: newDue,
		Status:       pu.PaymentStatus,
		Record:       rec,
	}, nil
}

// OpenBalance valida el pago inicial contra el total y devuelve el saldo inicial.
func OpenBalance(total, initial decimal.Decimal) (decimal.Decimal, error) {
	if total.IsNegative() || initial.IsNegative() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if initial.GreaterThan(total) {
		return decimal.Zero, domain.ErrExceedsDue
	}
	return money.Round2(total.Sub(initial)), nil
}

// TotalPaid pago inicial más abonos.
func TotalPaid(s *entity.Sale) decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(s.PaymentHistory)+1)
	amounts = append(amounts, s.InitialPayment)
	for _, p := range s.PaymentHistory {
		amounts = append(amounts, p.Amount)
	}
	return money.Sum(amounts...)
}

// Validate comprueba due == total - inicial - Σ abonos y due ≥ 0.
func Validate(s *entity.Sale) error {
	expected := money.Round2(s.TotalAmount.Sub(TotalPaid(s)))
	if expected.IsNegative() || !expected.Equal(s.DueAmount) {
		return fmt.Errorf("%w: saldo %s, esperado %s", domain.ErrConflict, s.DueAmount, expected)
	}
	return nil
}
