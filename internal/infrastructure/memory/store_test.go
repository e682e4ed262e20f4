package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

func TestRunLedger_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Repos().Sales.Create(ctx, &entity.Sale{ID: "s1", TotalAmount: decimal.NewFromInt(100), DueAmount: decimal.NewFromInt(100)}))

	boom := errors.New("boom")
	err := s.RunLedger(ctx, func(r ports.Repos) error {
		rec := entity.PaymentRecord{ID: "p1", Amount: decimal.NewFromInt(40), Date: time.Now()}
		require.NoError(t, r.Sales.AppendPayment(ctx, "s1", rec, decimal.NewFromInt(60)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Repos().Sales.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.DueAmount.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, got.PaymentHistory)
}

func TestRunLedger_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Repos().Sales.Create(ctx, &entity.Sale{ID: "s1", TotalAmount: decimal.NewFromInt(100), DueAmount: decimal.NewFromInt(100)}))

	err := s.RunLedger(ctx, func(r ports.Repos) error {
		rec := entity.PaymentRecord{ID: "p1", Amount: decimal.NewFromInt(40), Date: time.Now()}
		return r.Sales.AppendPayment(ctx, "s1", rec, decimal.NewFromInt(60))
	})
	require.NoError(t, err)

	got, _ := s.Repos().Sales.GetByID(ctx, "s1")
	assert.True(t, got.DueAmount.Equal(decimal.NewFromInt(60)))
	assert.Len(t, got.PaymentHistory, 1)
}

func TestSaleRepo_GetByID_NoExiste(t *testing.T) {
	got, err := New().Repos().Sales.GetByID(context.Background(), "x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaleRepo_CopiasIndependientes(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Repos().Sales.Create(ctx, &entity.Sale{ID: "s1"}))
	got, _ := s.Repos().Sales.GetByID(ctx, "s1")
	got.PaymentHistory = append(got.PaymentHistory, entity.PaymentRecord{ID: "x"})

	again, _ := s.Repos().Sales.GetByID(ctx, "s1")
	assert.Empty(t, again.PaymentHistory)
}

func TestCustomerRepo_AdjustLoyaltyPoints(t *testing.T) {
	ctx := context.Background()
	repos := New().Repos()
	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{ID: "c1", LoyaltyPoints: decimal.NewFromInt(10)}))

	bal, err := repos.Customers.AdjustLoyaltyPoints(ctx, "c1", decimal.NewFromInt(-4))
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(6)))

	_, err = repos.Customers.AdjustLoyaltyPoints(ctx, "c1", decimal.NewFromInt(-7))
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	_, err = repos.Customers.AdjustLoyaltyPoints(ctx, "nope", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInstallmentPlanRepo_UnPlanPorCompra(t *testing.T) {
	ctx := context.Background()
	repos := New().Repos()
	require.NoError(t, repos.Plans.Create(ctx, &entity.InstallmentPlan{ID: "pl1", PurchaseID: "pu1"}))
	err := repos.Plans.Create(ctx, &entity.InstallmentPlan{ID: "pl2", PurchaseID: "pu1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInstallmentPlanRepo_MarkOverdue_SoloPendientes(t *testing.T) {
	ctx := context.Background()
	repos := New().Repos()
	plan := &entity.InstallmentPlan{ID: "pl1", PurchaseID: "pu1", Installments: []entity.Installment{
		{InstallmentNumber: 1, Status: entity.InstallmentPending},
		{InstallmentNumber: 2, Status: entity.InstallmentPaid},
	}}
	require.NoError(t, repos.Plans.Create(ctx, plan))

	changed, err := repos.Plans.MarkOverdue(ctx, "pl1", 1)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repos.Plans.MarkOverdue(ctx, "pl1", 2)
	require.NoError(t, err)
	assert.False(t, changed)

	got, _ := repos.Plans.GetByPurchaseID(ctx, "pu1")
	assert.Equal(t, entity.InstallmentOverdue, got.Installments[0].Status)
	assert.Equal(t, entity.InstallmentPaid, got.Installments[1].Status)
}

func TestIdempotencyStore_ReservaYExpira(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewIdempotencyStore(func() time.Time { return now })

	ok, err := s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = s.Reserve(ctx, "k1", time.Minute)
	assert.False(t, ok, "duplicado dentro del TTL")

	now = now.Add(2 * time.Minute)
	ok, _ = s.Reserve(ctx, "k1", time.Minute)
	assert.True(t, ok, "la llave expiró")

	require.NoError(t, s.Release(ctx, "k1"))
	ok, _ = s.Reserve(ctx, "k1", time.Minute)
	assert.True(t, ok)
}
