package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, phone, discount_percentage, loyalty_points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Phone, c.DiscountPercentage, c.LoyaltyPoints, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID; (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	query := `
		SELECT id, name, phone, discount_percentage, loyalty_points, created_at, updated_at
		FROM customers WHERE id = $1`
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.DiscountPercentage, &c.LoyaltyPoints, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// AdjustLoyaltyPoints suma delta en un único UPDATE condicional: dos cajas
// canjeando a la vez no pueden dejar el saldo negativo.
func (r *CustomerRepo) AdjustLoyaltyPoints(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE customers
		SET loyalty_points = loyalty_points + $2, updated_at = now()
		WHERE id = $1 AND loyalty_points + $2 >= 0
		RETURNING loyalty_points`
	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, query, id, delta).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("adjust loyalty points: %w", err)
	}
	// Sin fila: o no existe el cliente o el saldo no alcanza.
	existing, gerr := r.GetByID(ctx, id)
	if gerr != nil {
		return decimal.Zero, gerr
	}
	if existing == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return decimal.Zero, domain.ErrInsufficientPoints
}
