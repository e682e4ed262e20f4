package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/pricing"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T, customers ...*entity.Customer) (*UseCase, *memory.Store) {
	t.Helper()
	store := memory.New()
	for _, c := range customers {
		require.NoError(t, store.Repos().Customers.Create(context.Background(), c))
	}
	engine := pricing.NewEngine(
		pricing.NewDiscountPolicy(decimal.NewFromInt(5)),
		pricing.NewLoyaltyProgram(pricing.DefaultPointsPerThousand),
	)
	uc := NewUseCase(store, store.Repos().Customers, engine, func() time.Time { return fixedNow }, zerolog.Nop())
	return uc, store
}

// 2 unidades a 100 con costo 60: subtotal 200, costo 120.
func cart200(customerID string) dto.CartRequest {
	return dto.CartRequest{
		CustomerID: customerID,
		Lines: []dto.CartLineRequest{{
			ItemID: "lote-1", Kind: "inventory",
			UnitPrice: dec("100"), UnitQuantity: dec("2"), CostPrice: dec("60"),
		}},
	}
}

// ─── Quote ────────────────────────────────────────────────────────────────────

func TestQuote_SinCliente(t *testing.T) {
	uc, _ := newUseCase(t)
	q, err := uc.Quote(context.Background(), cart200(""))
	require.NoError(t, err)
	assert.Equal(t, "200", q.Subtotal.String())
	assert.Equal(t, "200", q.FinalAmount.String())
	assert.Equal(t, "80", q.Profit.String())
	assert.Len(t, q.Lines, 1)
	assert.NotNil(t, q.Warnings)
}

func TestQuote_ClienteInexistente(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Quote(context.Background(), cart200("no-existe"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuote_TipoDeLineaInvalido(t *testing.T) {
	uc, _ := newUseCase(t)
	in := cart200("")
	in.Lines[0].Kind = "servicio"
	_, err := uc.Quote(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── ApplyDiscount ────────────────────────────────────────────────────────────

func TestApplyDiscount_RecortaAlTope(t *testing.T) {
	uc, _ := newUseCase(t)
	res, err := uc.ApplyDiscount(dto.DiscountRequest{Total: dec("1000"), Percentage: decPtr("10")})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "5", res.Percentage.String())
	assert.Equal(t, "50", res.Amount.String())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, pricing.WarnDiscountCeilingExceeded, res.Warnings[0].Code)
}

func TestApplyDiscount_DescuentoDeClienteBloqueado(t *testing.T) {
	uc, _ := newUseCase(t)
	res, err := uc.ApplyDiscount(dto.DiscountRequest{
		Action: "remove", Total: dec("1000"), CurrentPercentage: dec("3"), IsCustomerDiscount: true,
	})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, "30", res.Amount.String())
}

func TestApplyDiscount_AccionInvalida(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.ApplyDiscount(dto.DiscountRequest{Action: "duplicar", Total: dec("10")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Checkout ─────────────────────────────────────────────────────────────────

func TestCheckout_PagoTotalAcumulaPuntos(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t, &entity.Customer{ID: "c1", Name: "Ana"})
	in := cart200("c1")
	in.Lines[0].UnitPrice = dec("50000") // 100000 en total → 1 punto

	sale, err := uc.Checkout(ctx, "u1", dto.CheckoutRequest{CartRequest: in})
	require.NoError(t, err)
	assert.Equal(t, "100000", sale.TotalAmount.String())
	assert.True(t, sale.DueAmount.IsZero())
	assert.Equal(t, entity.PaymentStatusPaid, sale.PaymentStatus)
	assert.Equal(t, "1", sale.LoyaltyEarned.String())

	c, _ := store.Repos().Customers.GetByID(ctx, "c1")
	assert.Equal(t, "1", c.LoyaltyPoints.String())

	stored, _ := store.Repos().Sales.GetByID(ctx, sale.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "u1", stored.CreatedBy)
	assert.Len(t, stored.Items, 1)
}

func TestCheckout_VentaACredito(t *testing.T) {
	uc, _ := newUseCase(t, &entity.Customer{ID: "c1", Name: "Ana"})
	sale, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		CartRequest:    cart200("c1"),
		InitialPayment: decPtr("50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "150", sale.DueAmount.String())
	assert.Equal(t, entity.PaymentStatusPartial, sale.PaymentStatus)
	assert.Equal(t, "50", sale.TotalPaid.String())
}

func TestCheckout_CreditoSinClienteRechazado(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		CartRequest:    cart200(""),
		InitialPayment: decPtr("0"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckout_PagoInicialMayorAlTotal(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		CartRequest:    cart200(""),
		InitialPayment: decPtr("200.01"),
	})
	assert.ErrorIs(t, err, domain.ErrExceedsDue)
}

func TestCheckout_CanjeDePuntosDescuentaSaldo(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t, &entity.Customer{ID: "c1", Name: "Ana", LoyaltyPoints: dec("50")})
	in := cart200("c1")
	in.UseLoyaltyPoints = true

	sale, err := uc.Checkout(ctx, "u1", dto.CheckoutRequest{CartRequest: in})
	require.NoError(t, err)
	assert.Equal(t, "50", sale.LoyaltyRedeemed.String())
	assert.Equal(t, "150", sale.TotalAmount.String())
	assert.True(t, sale.LoyaltyEarned.IsZero(), "canjear no acumula")

	c, _ := store.Repos().Customers.GetByID(ctx, "c1")
	assert.True(t, c.LoyaltyPoints.IsZero())
}

func TestCheckout_MetodoDePagoInvalido(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		CartRequest:   cart200(""),
		PaymentMethod: "bitcoin",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
