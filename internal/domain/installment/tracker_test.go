package installment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/ledger"
)

func monthlyPlan(t *testing.T, due string, count int) *entity.InstallmentPlan {
	t.Helper()
	plan, err := Generate(Params{PurchaseID: "p-1", DueAmount: dec(due), Count: count, Frequency: entity.FrequencyMonthly, StartDate: date(2025, 1, 1)}, now)
	require.NoError(t, err)
	return plan
}

func TestPay_CuotaCompleta(t *testing.T) {
	plan := monthlyPlan(t, "1000", 3)

	res, err := Pay(plan, 1, ledger.Payment{Amount: dec("333.33"), PaymentMethod: entity.PaymentMethodBankDeposit}, now)
	require.NoError(t, err)
	assert.True(t, res.IsPaid)
	assert.Equal(t, entity.InstallmentPaid, plan.Installments[0].Status)
	require.NotNil(t, plan.Installments[0].PaidDate)

	_, err = Pay(plan, 1, ledger.Payment{Amount: dec("1")}, now)
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
}

func TestPay_Errores(t *testing.T) {
	plan := monthlyPlan(t, "1000", 3)

	_, err := Pay(plan, 4, ledger.Payment{Amount: dec("1")}, now)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = Pay(plan, 3, ledger.Payment{Amount: dec("333.35")}, now)
	assert.ErrorIs(t, err, domain.ErrExceedsInstallment)

	_, err = Pay(plan, 3, ledger.Payment{Amount: dec("0")}, now)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = Pay(nil, 1, ledger.Payment{Amount: dec("1")}, now)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, inst := range plan.Installments {
		assert.True(t, inst.PaidAmount.IsZero(), "un rechazo no deja abonos")
	}
}

func TestPay_AbonosParcialesSeAcumulan(t *testing.T) {
	plan := monthlyPlan(t, "300", 3)

	res, err := Pay(plan, 2, ledger.Payment{Amount: dec("40")}, now)
	require.NoError(t, err)
	assert.False(t, res.IsPaid)
	assert.Equal(t, entity.InstallmentPartial, res.Installment.Status)
	assert.Equal(t, "60", res.Remaining.String())

	_, err = Pay(plan, 2, ledger.Payment{Amount: dec("60.01")}, now)
	assert.ErrorIs(t, err, domain.ErrExceedsInstallment)

	res, err = Pay(plan, 2, ledger.Payment{Amount: dec("60")}, now)
	require.NoError(t, err)
	assert.True(t, res.IsPaid)
	assert.Equal(t, "100", plan.Installments[1].PaidAmount.String())
}

func TestRecompute_EsIdempotente(t *testing.T) {
	plan := monthlyPlan(t, "1000", 3)
	purchaseTotal := dec("1000")

	agg := Recompute(plan, purchaseTotal)
	assert.Equal(t, entity.PaymentStatusUnpaid, agg.Status)
	assert.Equal(t, "1000", agg.RemainingDue.String())

	_, err := Pay(plan, 1, ledger.Payment{Amount: dec("333.33")}, now)
	require.NoError(t, err)
	_, err = Pay(plan, 3, ledger.Payment{Amount: dec("100")}, now)
	require.NoError(t, err)

	first := Recompute(plan, purchaseTotal)
	for i := 0; i < 3; i++ {
		again := Recompute(plan, purchaseTotal)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, entity.PaymentStatusPartial, first.Status)
	assert.Equal(t, "433.33", first.TotalPaid.String())
	assert.Equal(t, "566.67", first.RemainingDue.String())

	_, err = Pay(plan, 2, ledger.Payment{Amount: dec("333.33")}, now)
	require.NoError(t, err)
	_, err = Pay(plan, 3, ledger.Payment{Amount: dec("233.34")}, now)
	require.NoError(t, err)

	final := Recompute(plan, purchaseTotal)
	assert.Equal(t, entity.PaymentStatusPaid, final.Status)
	assert.True(t, final.RemainingDue.IsZero())

	pu := &entity.Purchase{TotalAmount: purchaseTotal}
	final.ApplyTo(pu, now)
	assert.Equal(t, entity.PaymentStatusPaid, pu.PaymentStatus)
	assert.True(t, pu.DueAmount.IsZero())
}

func TestRecompute_CompraConPagoInicialQuedaParcial(t *testing.T) {
	plan := monthlyPlan(t, "600", 2)
	agg := Recompute(plan, dec("1000"))
	assert.Equal(t, entity.PaymentStatusPartial, agg.Status)
	assert.Equal(t, "600", agg.RemainingDue.String())
}
