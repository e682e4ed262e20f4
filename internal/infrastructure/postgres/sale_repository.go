package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `
	id, customer_id, patient_type, original_amount, discount_percentage, discount_amount,
	loyalty_redeemed, loyalty_earned, total_amount, total_cost, profit, initial_payment,
	due_amount, payment_method, is_free_bill, is_insurance_patient, created_by, created_at, updated_at`

// Create guarda cabecera, ítems y abonos (si los hubiera) de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`
	_, err := r.q.Exec(ctx, query,
		s.ID, nullString(s.CustomerID), s.PatientType, s.OriginalAmount, s.DiscountPercentage, s.DiscountAmount,
		s.LoyaltyRedeemed, s.LoyaltyEarned, s.TotalAmount, s.TotalCost, s.Profit, s.InitialPayment,
		s.DueAmount, s.PaymentMethod, s.IsFreeBill, s.IsInsurancePatient, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, kind, item_id, name, unit_quantity, sub_unit_quantity,
			unit_price, sub_unit_price, item_discount_percentage, is_free, is_price_adjusted,
			original_unit_price, total_price, total_cost, position)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	for i, it := range s.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		_, err := r.q.Exec(ctx, itemQuery,
			it.ID, s.ID, it.Kind, it.ItemID, it.Name, it.UnitQuantity, it.SubUnitQuantity,
			it.UnitPrice, it.SubUnitPrice, it.ItemDiscountPercentage, it.IsFree, it.IsPriceAdjusted,
			it.OriginalUnitPrice, it.TotalPrice, it.TotalCost, i,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	for _, p := range s.PaymentHistory {
		if err := r.insertPayment(ctx, s.ID, p); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene la venta con ítems y abonos; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la fila de la venta (SELECT FOR UPDATE).
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id, true)
}

func (r *SaleRepo) get(ctx context.Context, id string, lock bool) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	var s entity.Sale
	var customerID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &customerID, &s.PatientType, &s.OriginalAmount, &s.DiscountPercentage, &s.DiscountAmount,
		&s.LoyaltyRedeemed, &s.LoyaltyEarned, &s.TotalAmount, &s.TotalCost, &s.Profit, &s.InitialPayment,
		&s.DueAmount, &s.PaymentMethod, &s.IsFreeBill, &s.IsInsurancePatient, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.CustomerID = derefString(customerID)

	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	if s.PaymentHistory, err = r.payments(ctx, s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, kind, item_id, name, unit_quantity, sub_unit_quantity, unit_price,
			sub_unit_price, item_discount_percentage, is_free, is_price_adjusted,
			original_unit_price, total_price, total_cost
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.Kind, &it.ItemID, &it.Name, &it.UnitQuantity,
			&it.SubUnitQuantity, &it.UnitPrice, &it.SubUnitPrice, &it.ItemDiscountPercentage,
			&it.IsFree, &it.IsPriceAdjusted, &it.OriginalUnitPrice, &it.TotalPrice, &it.TotalCost); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *SaleRepo) payments(ctx context.Context, saleID string) ([]entity.PaymentRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, amount, paid_at, payment_method, notes
		FROM sale_payments WHERE sale_id = $1 ORDER BY seq`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

// AppendPayment inserta el abono y fija el nuevo saldo. Llamar dentro de la tx que tomó GetForUpdate.
func (r *SaleRepo) AppendPayment(ctx context.Context, saleID string, rec entity.PaymentRecord, newDue decimal.Decimal) error {
	if err := r.insertPayment(ctx, saleID, rec); err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE sales SET due_amount = $2, updated_at = $3 WHERE id = $1`,
		saleID, newDue, rec.Date,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrExceedsDue
		}
		return fmt.Errorf("update sale due: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) insertPayment(ctx context.Context, saleID string, p entity.PaymentRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_payments (id, sale_id, amount, paid_at, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, saleID, p.Amount, p.Date, p.PaymentMethod, p.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert sale payment: %w", err)
	}
	return nil
}

func scanPayments(rows pgx.Rows) ([]entity.PaymentRecord, error) {
	var list []entity.PaymentRecord
	for rows.Next() {
		var p entity.PaymentRecord
		if err := rows.Scan(&p.ID, &p.Amount, &p.Date, &p.PaymentMethod, &p.Notes); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
