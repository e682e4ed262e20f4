package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo compras en memoria.
type PurchaseRepo struct {
	v view
}

func (r *PurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.purchases[purchase.ID]; ok {
			return fmt.Errorf("%w: compra %s ya existe", domain.ErrConflict, purchase.ID)
		}
		st.purchases[purchase.ID] = copyPurchase(*purchase)
		return nil
	})
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.v.do(ctx, func(st *state) error {
		if p, ok := st.purchases[id]; ok {
			c := copyPurchase(p)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseRepo) AppendPayment(ctx context.Context, purchase *entity.Purchase, rec entity.PaymentRecord) error {
	return r.v.do(ctx, func(st *state) error {
		p, ok := st.purchases[purchase.ID]
		if !ok {
			return domain.ErrNotFound
		}
		p = copyPurchase(p)
		p.PaymentHistory = append(p.PaymentHistory, rec)
		p.DueAmount = purchase.DueAmount
		p.PaymentStatus = purchase.PaymentStatus
		p.UpdatedAt = purchase.UpdatedAt
		st.purchases[p.ID] = p
		return nil
	})
}

func (r *PurchaseRepo) UpdateAggregate(ctx context.Context, purchase *entity.Purchase) error {
	return r.v.do(ctx, func(st *state) error {
		p, ok := st.purchases[purchase.ID]
		if !ok {
			return domain.ErrNotFound
		}
		p.DueAmount = purchase.DueAmount
		p.PaymentStatus = purchase.PaymentStatus
		p.HasInstallmentPlan = purchase.HasInstallmentPlan
		p.InstallmentPlanID = purchase.InstallmentPlanID
		p.UpdatedAt = purchase.UpdatedAt
		st.purchases[p.ID] = p
		return nil
	})
}
