package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/money"
)

// DefaultMaxDiscountPercent tope de descuento manual de caja.
var DefaultMaxDiscountPercent = decimal.NewFromInt(5)

// Presets de selección rápida en caja.
var Presets = []int{1, 2, 3, 4, 5}

// DiscountPolicy calcula un descuento acotado por MaxPercent sobre el total del carrito.
type DiscountPolicy struct {
	MaxPercent decimal.Decimal
}

// NewDiscountPolicy construye la política; un tope no positivo usa DefaultMaxDiscountPercent.
func NewDiscountPolicy(maxPercent decimal.Decimal) DiscountPolicy {
	if !maxPercent.IsPositive() {
		maxPercent = DefaultMaxDiscountPercent
	}
	return DiscountPolicy{MaxPercent: maxPercent}
}

// Discount resultado efectivo de la política.
type Discount struct {
	Percentage  decimal.Decimal
	Amount      decimal.Decimal
	FinalAmount decimal.Decimal
	Warnings    []Warning
}

// Clamped indica si el pedido fue recortado al tope.
func (d Discount) Clamped() bool {
	return hasWarning(d.Warnings, WarnDiscountCeilingExceeded)
}

// DiscountRequest pedido de descuento por porcentaje o por monto (exactamente uno).
type DiscountRequest struct {
	Percentage *decimal.Decimal
	Amount     *decimal.Decimal
}

// ByPercentage arma un pedido por porcentaje.
func ByPercentage(p decimal.Decimal) DiscountRequest { return DiscountRequest{Percentage: &p} }

// ByAmount arma un pedido por monto.
func ByAmount(a decimal.Decimal) DiscountRequest { return DiscountRequest{Amount: &a} }

// FromPercentage aplica un porcentaje sobre total. Un porcentaje por encima del
// tope se recorta y se reporta con WarnDiscountCeilingExceeded.
func (p DiscountPolicy) FromPercentage(total, pct decimal.Decimal) (Discount, error) {
	if total.IsNegative() || pct.IsNegative() {
		return Discount{}, domain.ErrInvalidAmount
	}
	var warnings []Warning
	if pct.GreaterThan(p.MaxPercent) {
		warnings = append(warnings, ceilingWarning(p.MaxPercent))
		pct = p.MaxPercent
	}
	amount := money.ApplyPercentage(total, pct)
	return Discount{
		Percentage:  pct,
		Amount:      amount,
		FinalAmount: money.Round2(total.Sub(amount)),
		Warnings:    warnings,
	}, nil
}

// FromAmount aplica un monto absoluto. Si el porcentaje implícito supera el tope,
// el monto se recorta a total*MaxPercent/100.
func (p DiscountPolicy) FromAmount(total, amount decimal.Decimal) (Discount, error) {
	if total.IsNegative() || amount.IsNegative() {
		return Discount{}, domain.ErrInvalidAmount
	}
	amount = money.Round2(amount)
	var warnings []Warning
	if ceiling := p.CeilingAmount(total); amount.GreaterThan(ceiling) {
		warnings = append(warnings, ceilingWarning(p.MaxPercent))
		amount = ceiling
	}
	return Discount{
		Percentage:  money.PercentageOf(amount, total),
		Amount:      amount,
		FinalAmount: money.Round2(total.Sub(amount)),
		Warnings:    warnings,
	}, nil
}

// CeilingAmount monto máximo de descuento para total.
func (p DiscountPolicy) CeilingAmount(total decimal.Decimal) decimal.Decimal {
	return money.ApplyPercentage(total, p.MaxPercent)
}

// Evaluate resuelve un DiscountRequest sin modificar estado.
func (p DiscountPolicy) Evaluate(total decimal.Decimal, req DiscountRequest) (Discount, error) {
	switch {
	case req.Percentage != nil && req.Amount == nil:
		return p.FromPercentage(total, *req.Percentage)
	case req.Amount != nil && req.Percentage == nil:
		return p.FromAmount(total, *req.Amount)
	default:
		return Discount{}, fmt.Errorf("%w: indicar porcentaje o monto", domain.ErrInvalidInput)
	}
}

// CartDiscount estado del descuento de un carrito. Si FromCustomer es true el
// porcentaje es el descuento permanente del cliente y no se edita en caja.
type CartDiscount struct {
	Percentage   decimal.Decimal
	FromCustomer bool
}

// Mutation resultado de Apply/Remove/Preset.
type Mutation struct {
	State    CartDiscount
	Discount Discount
	Applied  bool // false cuando la operación no tuvo efecto
}

// Apply cambia el descuento manual del carrito. Con descuento de cliente es un
// no-op reportado con WarnCustomerDiscountLocked.
func (p DiscountPolicy) Apply(state CartDiscount, total decimal.Decimal, req DiscountRequest) (Mutation, error) {
	if state.FromCustomer {
		return p.locked(state, total)
	}
	d, err := p.Evaluate(total, req)
	if err != nil {
		return Mutation{}, err
	}
	return Mutation{
		State:    CartDiscount{Percentage: d.Percentage},
		Discount: d,
		Applied:  true,
	}, nil
}

// Remove quita el descuento manual del carrito.
func (p DiscountPolicy) Remove(state CartDiscount, total decimal.Decimal) (Mutation, error) {
	if state.FromCustomer {
		return p.locked(state, total)
	}
	d, err := p.FromPercentage(total, decimal.Zero)
	if err != nil {
		return Mutation{}, err
	}
	return Mutation{State: CartDiscount{Percentage: decimal.Zero}, Discount: d, Applied: true}, nil
}

// Preset aplica uno de los porcentajes de selección rápida.
func (p DiscountPolicy) Preset(state CartDiscount, total decimal.Decimal, preset int) (Mutation, error) {
	valid := false
	for _, v := range Presets {
		if v == preset {
			valid = true
			break
		}
	}
	if !valid {
		return Mutation{}, fmt.Errorf("%w: preset %d", domain.ErrInvalidInput, preset)
	}
	return p.Apply(state, total, ByPercentage(decimal.NewFromInt(int64(preset))))
}

func (p DiscountPolicy) locked(state CartDiscount, total decimal.Decimal) (Mutation, error) {
	d, err := p.FromPercentage(total, state.Percentage)
	if err != nil {
		return Mutation{}, err
	}
	d.Warnings = append(d.Warnings, Warning{
		Code:    WarnCustomerDiscountLocked,
		Message: "el descuento del cliente no se modifica desde caja",
	})
	return Mutation{State: state, Discount: d, Applied: false}, nil
}

func ceilingWarning(max decimal.Decimal) Warning {
	return Warning{
		Code:    WarnDiscountCeilingExceeded,
		Message: fmt.Sprintf("%s: se aplicó el máximo de %s%%", domain.ErrDiscountCeilingExceeded, max.String()),
	}
}
