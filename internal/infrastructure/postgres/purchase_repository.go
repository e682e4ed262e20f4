package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `
	id, supplier_id, invoice_number, purchase_date, total_amount, initial_payment, due_amount,
	payment_status, has_installment_plan, installment_plan_id, created_at, updated_at`

// Create persiste una compra nueva.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SupplierID, p.InvoiceNumber, p.PurchaseDate, p.TotalAmount, p.InitialPayment, p.DueAmount,
		p.PaymentStatus, p.HasInstallmentPlan, nullString(p.InstallmentPlanID), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetByID obtiene la compra con sus abonos directos; (nil, nil) si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la fila de la compra (SELECT FOR UPDATE).
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, id, true)
}

func (r *PurchaseRepo) get(ctx context.Context, id string, lock bool) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	var p entity.Purchase
	var planID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SupplierID, &p.InvoiceNumber, &p.PurchaseDate, &p.TotalAmount, &p.InitialPayment, &p.DueAmount,
		&p.PaymentStatus, &p.HasInstallmentPlan, &planID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	p.InstallmentPlanID = derefString(planID)

	rows, err := r.q.Query(ctx, `
		SELECT id, amount, paid_at, payment_method, notes
		FROM purchase_payments WHERE purchase_id = $1 ORDER BY seq`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list purchase payments: %w", err)
	}
	defer rows.Close()
	if p.PaymentHistory, err = scanPayments(rows); err != nil {
		return nil, err
	}
	return &p, nil
}

// AppendPayment inserta el abono directo y escribe saldo y estado ya calculados.
func (r *PurchaseRepo) AppendPayment(ctx context.Context, p *entity.Purchase, rec entity.PaymentRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_payments (id, purchase_id, amount, paid_at, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, p.ID, rec.Amount, rec.Date, rec.PaymentMethod, rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert purchase payment: %w", err)
	}
	return r.UpdateAggregate(ctx, p)
}

// UpdateAggregate escribe due_amount, payment_status y la referencia al plan.
func (r *PurchaseRepo) UpdateAggregate(ctx context.Context, p *entity.Purchase) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchases
		SET due_amount = $2, payment_status = $3, has_installment_plan = $4,
			installment_plan_id = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.DueAmount, p.PaymentStatus, p.HasInstallmentPlan, nullString(p.InstallmentPlanID), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
