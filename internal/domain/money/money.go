// Package money concentra el redondeo monetario. Todo cálculo de porcentajes o
// proporciones pasa por Round2 antes de compararse, sumarse o persistirse.
package money

import "github.com/shopspring/decimal"

// Places decimales de la moneda.
const Places = 2

var hundred = decimal.NewFromInt(100)

// Round2 redondea a 2 decimales, mitad alejándose de cero.
func Round2(x decimal.Decimal) decimal.Decimal {
	return x.Round(Places)
}

// ApplyPercentage devuelve Round2(base * pct / 100).
func ApplyPercentage(base, pct decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(pct).Div(hundred))
}

// PercentageOf devuelve qué porcentaje es part de whole (0 si whole es 0).
func PercentageOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return Round2(part.Mul(hundred).Div(whole))
}

// Max0 acota en cero por abajo.
func Max0(x decimal.Decimal) decimal.Decimal {
	if x.IsNegative() {
		return decimal.Zero
	}
	return x
}

// Min devuelve el menor de a y b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Sum suma y redondea.
func Sum(xs ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, x := range xs {
		total = total.Add(x)
	}
	return Round2(total)
}
