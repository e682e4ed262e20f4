package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.InstallmentPlanRepository = (*InstallmentPlanRepo)(nil)

// InstallmentPlanRepo planes de cuotas en memoria.
type InstallmentPlanRepo struct {
	v view
}

func (r *InstallmentPlanRepo) Create(ctx context.Context, plan *entity.InstallmentPlan) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.planByPurchase[plan.PurchaseID]; ok {
			return fmt.Errorf("%w: la compra %s ya tiene plan", domain.ErrConflict, plan.PurchaseID)
		}
		st.plans[plan.ID] = copyPlan(*plan)
		st.planByPurchase[plan.PurchaseID] = plan.ID
		return nil
	})
}

// GetForUpdate no bloquea nada extra: la transacción en memoria ya es exclusiva.
func (r *InstallmentPlanRepo) GetForUpdate(ctx context.Context, id string) (*entity.InstallmentPlan, error) {
	var out *entity.InstallmentPlan
	err := r.v.do(ctx, func(st *state) error {
		if p, ok := st.plans[id]; ok {
			c := copyPlan(p)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *InstallmentPlanRepo) GetByPurchaseID(ctx context.Context, purchaseID string) (*entity.InstallmentPlan, error) {
	var out *entity.InstallmentPlan
	err := r.v.do(ctx, func(st *state) error {
		id, ok := st.planByPurchase[purchaseID]
		if !ok {
			return nil
		}
		c := copyPlan(st.plans[id])
		out = &c
		return nil
	})
	return out, err
}

func (r *InstallmentPlanRepo) UpdateInstallment(ctx context.Context, planID string, inst entity.Installment) error {
	return r.v.do(ctx, func(st *state) error {
		p, ok := st.plans[planID]
		if !ok {
			return domain.ErrNotFound
		}
		p = copyPlan(p)
		target, ok := p.Installment(inst.InstallmentNumber)
		if !ok {
			return domain.ErrNotFound
		}
		*target = copyInstallment(inst)
		st.plans[planID] = p
		return nil
	})
}

func (r *InstallmentPlanRepo) MarkOverdue(ctx context.Context, planID string, installmentNumber int) (bool, error) {
	changed := false
	err := r.v.do(ctx, func(st *state) error {
		p, ok := st.plans[planID]
		if !ok {
			return domain.ErrNotFound
		}
		p = copyPlan(p)
		inst, ok := p.Installment(installmentNumber)
		if !ok {
			return domain.ErrNotFound
		}
		if inst.Status != entity.InstallmentPending && inst.Status != entity.InstallmentPartial {
			return nil
		}
		inst.Status = entity.InstallmentOverdue
		st.plans[planID] = p
		changed = true
		return nil
	})
	return changed, err
}

func (r *InstallmentPlanRepo) ListAll(ctx context.Context) ([]*entity.InstallmentPlan, error) {
	var out []*entity.InstallmentPlan
	err := r.v.do(ctx, func(st *state) error {
		for _, p := range st.plans {
			c := copyPlan(p)
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}
