package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	v view
}

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return fmt.Errorf("%w: venta %s ya existe", domain.ErrConflict, sale.ID)
		}
		st.sales[sale.ID] = copySale(*sale)
		return nil
	})
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.v.do(ctx, func(st *state) error {
		if s, ok := st.sales[id]; ok {
			c := copySale(s)
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción ya tiene el lock del store.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) AppendPayment(ctx context.Context, saleID string, rec entity.PaymentRecord, newDue decimal.Decimal) error {
	return r.v.do(ctx, func(st *state) error {
		s, ok := st.sales[saleID]
		if !ok {
			return domain.ErrNotFound
		}
		s = copySale(s)
		s.PaymentHistory = append(s.PaymentHistory, rec)
		s.DueAmount = newDue
		s.UpdatedAt = rec.Date
		st.sales[saleID] = s
		return nil
	})
}
