package installment

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Overdue cuota reclasificada como vencida.
type Overdue struct {
	PlanID      string
	PurchaseID  string
	Installment entity.Installment
}

// IsOverdue indica si una cuota sin completar venció antes de today (por día calendario).
func IsOverdue(inst entity.Installment, today time.Time) bool {
	switch inst.Status {
	case entity.InstallmentPending, entity.InstallmentPartial, entity.InstallmentOverdue:
		return dateOnly(inst.DueDate).Before(dateOnly(today))
	}
	return false
}

// MarkOverdue reclasifica en memoria las cuotas pending/partial vencidas y
// devuelve las que cambiaron. No persiste nada.
func MarkOverdue(plan *entity.InstallmentPlan, today time.Time) []Overdue {
	var out []Overdue
	for i := range plan.Installments {
		inst := &plan.Installments[i]
		if inst.Status != entity.InstallmentPending && inst.Status != entity.InstallmentPartial {
			continue
		}
		if !IsOverdue(*inst, today) {
			continue
		}
		inst.Status = entity.InstallmentOverdue
		out = append(out, Overdue{PlanID: plan.ID, PurchaseID: plan.PurchaseID, Installment: *inst})
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
