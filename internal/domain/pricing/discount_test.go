package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"esperado %s, obtenido %s", want, got.String()}, msgAndArgs...)...)
}

func TestFromPercentage_RecortaAlTope(t *testing.T) {
	p := NewDiscountPolicy(decimal.Zero)

	d, err := p.FromPercentage(dec("10000"), dec("8"))
	require.NoError(t, err)

	assertDec(t, "5", d.Percentage)
	assertDec(t, "500", d.Amount)
	assertDec(t, "9500", d.FinalAmount)
	assert.True(t, d.Clamped())
}

func TestFromPercentage_DentroDelTopeSinAdvertencia(t *testing.T) {
	d, err := NewDiscountPolicy(decimal.Zero).FromPercentage(dec("200"), dec("2.5"))
	require.NoError(t, err)
	assertDec(t, "5", d.Amount)
	assert.False(t, d.Clamped())
	assert.Empty(t, d.Warnings)
}

func TestFromAmount_RecortaAlTope(t *testing.T) {
	d, err := NewDiscountPolicy(decimal.Zero).FromAmount(dec("1000"), dec("80"))
	require.NoError(t, err)
	assertDec(t, "50", d.Amount)
	assertDec(t, "5", d.Percentage)
	assertDec(t, "950", d.FinalAmount)
	assert.True(t, d.Clamped())
}

func TestTope_PropiedadEnAmbosEjes(t *testing.T) {
	p := NewDiscountPolicy(decimal.Zero)
	total := dec("1234.56")
	for i := 0; i <= 40; i++ {
		req := decimal.NewFromInt(int64(i)).Div(decimal.NewFromInt(4)) // 0, 0.25 ... 10
		d, err := p.FromPercentage(total, req)
		require.NoError(t, err)
		assertDec(t, decimal.Min(req, dec("5")).String(), d.Percentage)

		amountReq := decimal.NewFromInt(int64(i * 5))
		d, err = p.FromAmount(total, amountReq)
		require.NoError(t, err)
		assertDec(t, decimal.Min(amountReq, p.CeilingAmount(total)).String(), d.Amount)
	}
}

func TestIdaYVuelta_PorcentajeMontoPorcentaje(t *testing.T) {
	p := NewDiscountPolicy(decimal.Zero)
	tolerance := dec("0.01")
	for _, total := range []string{"100", "999.99", "10000", "123456.78"} {
		for _, pct := range []string{"0", "0.5", "1", "2.37", "3.33", "4.99", "5"} {
			byPct, err := p.FromPercentage(dec(total), dec(pct))
			require.NoError(t, err)
			byAmount, err := p.FromAmount(dec(total), byPct.Amount)
			require.NoError(t, err)
			diff := byAmount.Percentage.Sub(dec(pct)).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance), "total=%s pct=%s -> %s", total, pct, byAmount.Percentage)
		}
	}
}

func TestValoresNegativos(t *testing.T) {
	p := NewDiscountPolicy(decimal.Zero)
	_, err := p.FromPercentage(dec("100"), dec("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = p.FromAmount(dec("-100"), dec("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestEvaluate_RequiereExactamenteUno(t *testing.T) {
	p := NewDiscountPolicy(decimal.Zero)
	_, err := p.Evaluate(dec("100"), DiscountRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pct, amt := dec("1"), dec("1")
	_, err = p.Evaluate(dec("100"), DiscountRequest{Percentage: &pct, Amount: &amt})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApply_DescuentoDeClienteEsNoOp(t *testing.T) {
	p := NewDiscountPolicy(decimal.Zero)
	state := CartDiscount{Percentage: dec("3"), FromCustomer: true}

	m, err := p.Apply(state, dec("1000"), ByPercentage(dec("5")))
	require.NoError(t, err)
	assert.False(t, m.Applied)
	assert.Equal(t, state, m.State)
	assertDec(t, "30", m.Discount.Amount)
	assert.True(t, hasWarning(m.Discount.Warnings, WarnCustomerDiscountLocked))

	m, err = p.Remove(state, dec("1000"))
	require.NoError(t, err)
	assert.False(t, m.Applied)
	assertDec(t, "3", m.State.Percentage)
}

func TestPreset(t *testing.T) {
	p := NewDiscountPolicy(decimal.Zero)

	m, err := p.Preset(CartDiscount{}, dec("1000"), 4)
	require.NoError(t, err)
	assert.True(t, m.Applied)
	assertDec(t, "40", m.Discount.Amount)

	_, err = p.Preset(CartDiscount{}, dec("1000"), 7)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	m, err = p.Preset(CartDiscount{Percentage: dec("2"), FromCustomer: true}, dec("1000"), 4)
	require.NoError(t, err)
	assert.False(t, m.Applied, "los presets se rechazan igual que la carga manual")
}

func TestRemove_DescuentoManual(t *testing.T) {
	m, err := NewDiscountPolicy(decimal.Zero).Remove(CartDiscount{Percentage: dec("4")}, dec("500"))
	require.NoError(t, err)
	assert.True(t, m.Applied)
	assert.True(t, m.State.Percentage.IsZero())
	assertDec(t, "500", m.Discount.FinalAmount)
}
