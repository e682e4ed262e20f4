package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/money"
)

// Engine agregador de precios del carrito: única fuente de los números finales
// de una venta. Es puro; se puede invocar en cada tecla sin efectos.
type Engine struct {
	Discounts DiscountPolicy
	Loyalty   LoyaltyProgram
}

// NewEngine construye el motor con la política y el programa de puntos.
func NewEngine(discounts DiscountPolicy, loyalty LoyaltyProgram) Engine {
	return Engine{Discounts: discounts, Loyalty: loyalty}
}

// PricedLine línea valorada.
type PricedLine struct {
	Line         CartLine
	GrossPrice   decimal.Decimal
	ItemDiscount decimal.Decimal
	TotalPrice   decimal.Decimal
	TotalCost    decimal.Decimal
}

// Breakdown desglose final del carrito.
type Breakdown struct {
	Lines              []PricedLine
	Subtotal           decimal.Decimal
	ItemDiscountTotal  decimal.Decimal
	DiscountPercentage decimal.Decimal
	IsCustomerDiscount bool
	CartDiscount       decimal.Decimal
	LoyaltyDiscount    decimal.Decimal
	FinalAmount        decimal.Decimal
	TotalCost          decimal.Decimal
	Profit             decimal.Decimal // sin acotar: puede ser negativo
	LoyaltyAccrual     decimal.Decimal // puntos que ganaría el cliente al cerrar
	Warnings           []Warning
}

// Price calcula el total a pagar del carrito. customer puede ser nil (venta de mostrador).
//
// Seguro y descuentos son excluyentes: en un carrito de paciente asegurado el
// precio de cada línea cobrada se iguala a su costo y el descuento de
// carrito y el canje de puntos quedan en cero.
func (e Engine) Price(cart *Cart, customer *entity.Customer) (Breakdown, error) {
	if cart == nil {
		return Breakdown{}, domain.ErrInvalidInput
	}
	var b Breakdown
	for _, l := range cart.Lines {
		pl, err := e.priceLine(l, cart.IsInsurancePatient)
		if err != nil {
			return Breakdown{}, err
		}
		b.Lines = append(b.Lines, pl)
		b.Subtotal = b.Subtotal.Add(pl.TotalPrice)
		b.ItemDiscountTotal = b.ItemDiscountTotal.Add(pl.ItemDiscount)
		b.TotalCost = b.TotalCost.Add(pl.TotalCost)
	}
	b.Subtotal = money.Round2(b.Subtotal)
	b.ItemDiscountTotal = money.Round2(b.ItemDiscountTotal)
	b.TotalCost = money.Round2(b.TotalCost)

	pct, fromCustomer := cart.DiscountPercentage, false
	if customer.HasStandingDiscount() {
		if cart.DiscountPercentage.IsPositive() && !cart.DiscountPercentage.Equal(customer.DiscountPercentage) {
			b.Warnings = append(b.Warnings, Warning{
				Code:    WarnCustomerDiscountLocked,
				Message: "se usa el descuento del cliente; el descuento manual se ignora",
			})
		}
		pct, fromCustomer = customer.DiscountPercentage, true
	}

	switch {
	case cart.IsFreeBill:
		if pct.IsPositive() || cart.UseLoyaltyPoints {
			b.Warnings = append(b.Warnings, Warning{
				Code:    WarnFreeBillSuppressesDiscount,
				Message: "factura sin cargo: no se aplican descuentos ni canje de puntos",
			})
		}
		pct = decimal.Zero
	case cart.IsInsurancePatient:
		if pct.IsPositive() || cart.UseLoyaltyPoints {
			b.Warnings = append(b.Warnings, Warning{
				Code:    WarnInsuranceSuppressesDiscount,
				Message: "paciente asegurado: se cobra a costo, sin descuentos ni canje de puntos",
			})
		}
		pct = decimal.Zero
	}

	d, err := e.Discounts.FromPercentage(b.Subtotal, pct)
	if err != nil {
		return Breakdown{}, err
	}
	b.Warnings = append(b.Warnings, d.Warnings...)
	b.DiscountPercentage = d.Percentage
	b.IsCustomerDiscount = fromCustomer && d.Percentage.IsPositive()
	b.CartDiscount = d.Amount

	b.LoyaltyDiscount = decimal.Zero
	if cart.UseLoyaltyPoints && !cart.IsInsurancePatient && !cart.IsFreeBill {
		if customer == nil {
			b.Warnings = append(b.Warnings, Warning{
				Code:    WarnLoyaltyWithoutCustomer,
				Message: "canje de puntos sin cliente identificado",
			})
		} else {
			// El canje se calcula después del descuento de carrito, nunca sobre el subtotal bruto.
			b.LoyaltyDiscount = e.Loyalty.Redeemable(customer.LoyaltyPoints, b.Subtotal.Sub(b.CartDiscount))
		}
	}

	b.FinalAmount = money.Max0(money.Round2(b.Subtotal.Sub(b.CartDiscount).Sub(b.LoyaltyDiscount)))
	if cart.IsFreeBill {
		b.FinalAmount = decimal.Zero
	}
	b.Profit = money.Round2(b.FinalAmount.Sub(b.TotalCost))

	if customer != nil {
		b.LoyaltyAccrual = e.Loyalty.Accrual(AccrualInput{
			Amount:          b.FinalAmount,
			DiscountApplied: b.CartDiscount.IsPositive() || pct.IsPositive(),
			UsedLoyalty:     cart.UseLoyaltyPoints,
			Insurance:       cart.IsInsurancePatient,
			FreeBill:        cart.IsFreeBill,
		})
	} else {
		b.LoyaltyAccrual = decimal.Zero
	}
	return b, nil
}

func (e Engine) priceLine(l CartLine, insurance bool) (PricedLine, error) {
	if err := l.Validate(); err != nil {
		return PricedLine{}, err
	}
	pl := PricedLine{
		Line:         l,
		GrossPrice:   l.GrossPrice(),
		ItemDiscount: l.ItemDiscount(),
		TotalPrice:   l.TotalPrice(),
		TotalCost:    l.TotalCost(),
	}
	switch l.Pricing {
	case LineFree:
		return pl, nil
	case LinePriced:
	default:
		return PricedLine{}, fmt.Errorf("%w: precio de línea %q", domain.ErrInvalidInput, l.Pricing)
	}
	if l.Kind != LineInventory && l.Kind != LineSecondary {
		return PricedLine{}, fmt.Errorf("%w: tipo de línea %q", domain.ErrInvalidInput, l.Kind)
	}
	// Asegurados: toda línea cobrada se vende a costo (margen cero).
	if insurance {
		pl.ItemDiscount = decimal.Zero
		pl.TotalPrice = pl.TotalCost
	}
	return pl, nil
}
