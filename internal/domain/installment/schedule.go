// Package installment genera cronogramas de cuotas para compras a proveedor
// y lleva el pago de cada cuota.
package installment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/money"
)

// MaxInstallments límite superior de cuotas por plan.
const MaxInstallments = 120

var cent = decimal.RequireFromString("0.01")

// Params datos para generar un plan.
type Params struct {
	PurchaseID     string
	DueAmount      decimal.Decimal // saldo de la compra al momento de crear el plan
	Count          int
	Frequency      string
	StartDate      time.Time
	CustomDueDates []time.Time // obligatorio con frecuencia custom, una fecha por cuota
}

// Generate construye el plan. La cuota nominal es round2(due/count); la última
// absorbe todo el residuo para que la suma sea exacta al centavo.
func Generate(p Params, now time.Time) (*entity.InstallmentPlan, error) {
	due := money.Round2(p.DueAmount)
	if !due.IsPositive() {
		return nil, domain.ErrNothingToPlan
	}
	if p.Count < 1 || p.Count > MaxInstallments {
		return nil, fmt.Errorf("%w: cantidad de cuotas %d", domain.ErrInvalidInput, p.Count)
	}
	// Cada cuota debe ser al menos de un centavo.
	if due.LessThan(cent.Mul(decimal.NewFromInt(int64(p.Count)))) {
		return nil, fmt.Errorf("%w: demasiadas cuotas para el saldo", domain.ErrInvalidInput)
	}
	if p.StartDate.IsZero() && p.Frequency != entity.FrequencyCustom {
		return nil, fmt.Errorf("%w: fecha de inicio requerida", domain.ErrInvalidInput)
	}

	dates, err := dueDates(p)
	if err != nil {
		return nil, err
	}

	count := decimal.NewFromInt(int64(p.Count))
	nominal := money.Round2(due.Div(count))
	rest := decimal.NewFromInt(int64(p.Count - 1))
	last := due.Sub(nominal.Mul(rest))
	if !last.IsPositive() {
		// El redondeo hacia arriba dejaría la última cuota en cero o negativa: truncar.
		nominal = due.Div(count).RoundDown(money.Places)
		last = due.Sub(nominal.Mul(rest))
	}

	plan := &entity.InstallmentPlan{
		ID:                uuid.New().String(),
		PurchaseID:        p.PurchaseID,
		TotalAmount:       due,
		InstallmentCount:  p.Count,
		InstallmentAmount: nominal,
		Frequency:         p.Frequency,
		StartDate:         dates[0],
		Installments:      make([]entity.Installment, 0, p.Count),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for i := 0; i < p.Count; i++ {
		amount := nominal
		if i == p.Count-1 {
			amount = last
		}
		plan.Installments = append(plan.Installments, entity.Installment{
			InstallmentNumber: i + 1,
			DueDate:           dates[i],
			Amount:            amount,
			Status:            entity.InstallmentPending,
			PaidAmount:        decimal.Zero,
		})
	}
	return plan, nil
}

func dueDates(p Params) ([]time.Time, error) {
	dates := make([]time.Time, p.Count)
	switch p.Frequency {
	case entity.FrequencyWeekly:
		for i := range dates {
			dates[i] = p.StartDate.AddDate(0, 0, 7*i)
		}
	case entity.FrequencyMonthly:
		// AddDate normaliza: 31-ene + 1 mes = 3-mar (igual que el calendario del front).
		for i := range dates {
			dates[i] = p.StartDate.AddDate(0, i, 0)
		}
	case entity.FrequencyCustom:
		for i := range dates {
			if i >= len(p.CustomDueDates) || p.CustomDueDates[i].IsZero() {
				return nil, fmt.Errorf("%w: cuota %d", domain.ErrMissingCustomDate, i+1)
			}
			dates[i] = p.CustomDueDates[i]
		}
	default:
		return nil, fmt.Errorf("%w: frecuencia %q", domain.ErrInvalidInput, p.Frequency)
	}
	return dates, nil
}
