package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/money"
)

// DefaultPointsPerThousand puntos acumulados por cada 1000 unidades vendidas.
var DefaultPointsPerThousand = decimal.RequireFromString("0.01")

var thousand = decimal.NewFromInt(1000)

// LoyaltyProgram reglas de canje y acumulación de puntos (1 punto = 1 unidad monetaria).
type LoyaltyProgram struct {
	PointsPerThousand decimal.Decimal
}

// NewLoyaltyProgram construye el programa; una tasa negativa usa la tasa por defecto.
func NewLoyaltyProgram(pointsPerThousand decimal.Decimal) LoyaltyProgram {
	if pointsPerThousand.IsNegative() {
		pointsPerThousand = DefaultPointsPerThousand
	}
	return LoyaltyProgram{PointsPerThousand: pointsPerThousand}
}

// Redeemable valor canjeable: min(puntos, total del carrito), nunca negativo.
func (LoyaltyProgram) Redeemable(points, cartTotal decimal.Decimal) decimal.Decimal {
	return money.Round2(money.Max0(money.Min(points, cartTotal)))
}

// AccrualInput datos de la venta cerrada relevantes para acumular puntos.
type AccrualInput struct {
	Amount          decimal.Decimal
	DiscountApplied bool // descuento de carrito o de cliente distinto de cero
	UsedLoyalty     bool // el carrito pidió canjear puntos
	Insurance       bool
	FreeBill        bool
}

// Accrual puntos ganados por la venta. Solo ventas a precio completo acumulan;
// pedir canje cuenta como venta reducida aunque no haya porcentaje de descuento.
func (l LoyaltyProgram) Accrual(in AccrualInput) decimal.Decimal {
	if in.DiscountApplied || in.UsedLoyalty || in.Insurance || in.FreeBill || !in.Amount.IsPositive() {
		return decimal.Zero
	}
	return money.Round2(in.Amount.Div(thousand).Mul(l.PointsPerThousand))
}
