package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes en memoria.
type CustomerRepo struct {
	v view
}

func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.customers[customer.ID]; ok {
			return fmt.Errorf("%w: cliente %s ya existe", domain.ErrConflict, customer.ID)
		}
		st.customers[customer.ID] = *customer
		return nil
	})
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.v.do(ctx, func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) AdjustLoyaltyPoints(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.v.do(ctx, func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.ErrNotFound
		}
		next := c.LoyaltyPoints.Add(delta)
		if next.IsNegative() {
			return domain.ErrInsufficientPoints
		}
		c.LoyaltyPoints = next
		st.customers[id] = c
		balance = next
		return nil
	})
	return balance, err
}
