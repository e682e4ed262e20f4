package credit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type recordingNotifier struct {
	mu    sync.Mutex
	sales []string
}

func (n *recordingNotifier) SaleCompleted(_ context.Context, s *entity.Sale) {
	n.mu.Lock()
	n.sales = append(n.sales, s.ID)
	n.mu.Unlock()
}

func seedSale(t *testing.T, store *memory.Store, total, initial string) {
	t.Helper()
	tot, ini := dec(total), dec(initial)
	require.NoError(t, store.Repos().Sales.Create(context.Background(), &entity.Sale{
		ID:             "s1",
		CustomerID:     "c1",
		TotalAmount:    tot,
		InitialPayment: ini,
		DueAmount:      tot.Sub(ini),
		PaymentMethod:  entity.PaymentMethodCash,
		CreatedAt:      fixedNow,
	}))
}

// ─── Ventas ───────────────────────────────────────────────────────────────────

func TestSaleRecordPayment_SaldaYNotificaUnaVez(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedSale(t, store, "5000", "2000")
	n := &recordingNotifier{}
	uc := NewSaleLedgerUseCase(store, store.Repos().Sales, n, clock, zerolog.Nop())

	res, err := uc.RecordPayment(ctx, "s1", dto.PaymentRequest{Amount: dec("1000")})
	require.NoError(t, err)
	assert.False(t, res.IsPaid)
	assert.Equal(t, "2000", res.NewDueAmount.String())
	assert.Equal(t, entity.PaymentStatusPartial, res.PaymentStatus)
	assert.Empty(t, n.sales, "un abono parcial no notifica")

	res, err = uc.RecordPayment(ctx, "s1", dto.PaymentRequest{Amount: dec("2000"), PaymentMethod: "card"})
	require.NoError(t, err)
	assert.True(t, res.IsPaid)
	assert.True(t, res.NewDueAmount.IsZero())
	assert.Equal(t, []string{"s1"}, n.sales)

	_, err = uc.RecordPayment(ctx, "s1", dto.PaymentRequest{Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrExceedsDue)

	sale, err := uc.GetSale(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, sale.PaymentHistory, 2)
	assert.Equal(t, "5000", sale.TotalPaid.String())
	assert.Equal(t, entity.PaymentStatusPaid, sale.PaymentStatus)
}

func TestSaleRecordPayment_Validaciones(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedSale(t, store, "5000", "2000")
	uc := NewSaleLedgerUseCase(store, store.Repos().Sales, nil, clock, zerolog.Nop())

	tests := []struct {
		name string
		id   string
		req  dto.PaymentRequest
		err  error
	}{
		{"monto cero", "s1", dto.PaymentRequest{Amount: dec("0")}, domain.ErrInvalidAmount},
		{"monto negativo", "s1", dto.PaymentRequest{Amount: dec("-5")}, domain.ErrInvalidAmount},
		{"mas de dos decimales", "s1", dto.PaymentRequest{Amount: dec("1.005")}, domain.ErrInvalidAmount},
		{"excede saldo", "s1", dto.PaymentRequest{Amount: dec("3000.01")}, domain.ErrExceedsDue},
		{"metodo invalido", "s1", dto.PaymentRequest{Amount: dec("10"), PaymentMethod: "trueque"}, domain.ErrInvalidInput},
		{"fecha invalida", "s1", dto.PaymentRequest{Amount: dec("10"), Date: "15/01/2025"}, domain.ErrInvalidInput},
		{"venta inexistente", "nope", dto.PaymentRequest{Amount: dec("10")}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.RecordPayment(ctx, tt.id, tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	sale, _ := uc.GetSale(ctx, "s1")
	assert.Equal(t, "3000", sale.DueAmount.String(), "los errores no modifican la venta")
	assert.Empty(t, sale.PaymentHistory)
}

func TestSaleRecordPayment_SaldoDescuadradoNoSePersiste(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	// total 100 sin pagos, pero la fila dice que debe 80
	require.NoError(t, store.Repos().Sales.Create(ctx, &entity.Sale{
		ID: "s1", CustomerID: "c1", TotalAmount: dec("100"), DueAmount: dec("80"),
		PaymentMethod: entity.PaymentMethodCash, CreatedAt: fixedNow,
	}))
	n := &recordingNotifier{}
	uc := NewSaleLedgerUseCase(store, store.Repos().Sales, n, clock, zerolog.Nop())

	_, err := uc.RecordPayment(ctx, "s1", dto.PaymentRequest{Amount: dec("80")})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, n.sales)

	sale, err := uc.GetSale(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "80", sale.DueAmount.String())
	assert.Empty(t, sale.PaymentHistory)
}

func TestSaleRecordPayment_ConcurrentesNoExcedenSaldo(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedSale(t, store, "100", "0")
	uc := NewSaleLedgerUseCase(store, store.Repos().Sales, nil, clock, zerolog.Nop())

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.RecordPayment(ctx, "s1", dto.PaymentRequest{Amount: dec("30")}); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	sale, _ := uc.GetSale(ctx, "s1")
	assert.Equal(t, "10", sale.DueAmount.String())
}

// ─── Compras ──────────────────────────────────────────────────────────────────

func TestCreatePurchase(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := NewPurchaseLedgerUseCase(store, store.Repos().Purchases, clock, zerolog.Nop())

	p, err := uc.CreatePurchase(ctx, dto.CreatePurchaseRequest{
		SupplierID: "prov-1", TotalAmount: dec("1200"), InitialPayment: dec("200"),
	})
	require.NoError(t, err)
	assert.Equal(t, "1000", p.DueAmount.String())
	assert.Equal(t, entity.PaymentStatusPartial, p.PaymentStatus)
	assert.Equal(t, "2025-01-15", p.PurchaseDate)

	_, err = uc.CreatePurchase(ctx, dto.CreatePurchaseRequest{SupplierID: "prov-1", TotalAmount: dec("100"), InitialPayment: dec("101")})
	assert.ErrorIs(t, err, domain.ErrExceedsDue)

	_, err = uc.CreatePurchase(ctx, dto.CreatePurchaseRequest{TotalAmount: dec("100")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreatePurchase(ctx, dto.CreatePurchaseRequest{SupplierID: "prov-1", TotalAmount: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestPurchaseRecordPayment(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := NewPurchaseLedgerUseCase(store, store.Repos().Purchases, clock, zerolog.Nop())
	p, err := uc.CreatePurchase(ctx, dto.CreatePurchaseRequest{SupplierID: "prov-1", TotalAmount: dec("500")})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusUnpaid, p.PaymentStatus)

	res, err := uc.RecordPayment(ctx, p.ID, dto.PaymentRequest{Amount: dec("500"), Date: "2025-01-20"})
	require.NoError(t, err)
	assert.True(t, res.IsPaid)
	assert.Equal(t, "2025-01-20", res.Payment.Date)

	got, err := uc.GetPurchase(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)
	assert.Len(t, got.PaymentHistory, 1)
}

func TestPurchaseRecordPayment_ConPlanRechazado(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Repos().Purchases.Create(ctx, &entity.Purchase{
		ID: "pu1", SupplierID: "prov", TotalAmount: dec("100"), DueAmount: dec("100"),
		PaymentStatus: entity.PaymentStatusUnpaid, HasInstallmentPlan: true, InstallmentPlanID: "pl1",
	}))
	uc := NewPurchaseLedgerUseCase(store, store.Repos().Purchases, clock, zerolog.Nop())
	_, err := uc.RecordPayment(ctx, "pu1", dto.PaymentRequest{Amount: dec("10")})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
