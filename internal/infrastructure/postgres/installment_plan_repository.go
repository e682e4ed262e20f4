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

var _ repository.InstallmentPlanRepository = (*InstallmentPlanRepo)(nil)

// InstallmentPlanRepo implementación de InstallmentPlanRepository (usable con pool o tx).
type InstallmentPlanRepo struct {
	q Querier
}

// NewInstallmentPlanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInstallmentPlanRepository(q Querier) *InstallmentPlanRepo {
	return &InstallmentPlanRepo{q: q}
}

const planColumns = `
	id, purchase_id, total_amount, installment_count, installment_amount, frequency,
	start_date, created_at, updated_at`

// Create guarda el plan y sus cuotas. purchase_id es UNIQUE: un segundo plan da ErrConflict.
func (r *InstallmentPlanRepo) Create(ctx context.Context, p *entity.InstallmentPlan) error {
	_, err := r.q.Exec(ctx, `INSERT INTO installment_plans (`+planColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.PurchaseID, p.TotalAmount, p.InstallmentCount, p.InstallmentAmount, p.Frequency,
		p.StartDate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la compra ya tiene plan", domain.ErrConflict)
		}
		return fmt.Errorf("insert installment plan: %w", err)
	}
	for _, inst := range p.Installments {
		_, err := r.q.Exec(ctx, `
			INSERT INTO installments (plan_id, installment_number, due_date, amount, status,
				paid_amount, paid_date, payment_method, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			p.ID, inst.InstallmentNumber, inst.DueDate, inst.Amount, inst.Status,
			inst.PaidAmount, inst.PaidDate, inst.PaymentMethod, inst.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert installment: %w", err)
		}
	}
	return nil
}

// GetByPurchaseID obtiene el plan de una compra; (nil, nil) si no tiene.
func (r *InstallmentPlanRepo) GetByPurchaseID(ctx context.Context, purchaseID string) (*entity.InstallmentPlan, error) {
	return r.get(ctx, `SELECT `+planColumns+` FROM installment_plans WHERE purchase_id = $1`, purchaseID)
}

// GetForUpdate bloquea la fila del plan: serializa los abonos a cualquiera de sus cuotas.
func (r *InstallmentPlanRepo) GetForUpdate(ctx context.Context, id string) (*entity.InstallmentPlan, error) {
	return r.get(ctx, `SELECT `+planColumns+` FROM installment_plans WHERE id = $1 FOR UPDATE`, id)
}

func (r *InstallmentPlanRepo) get(ctx context.Context, query, arg string) (*entity.InstallmentPlan, error) {
	p, err := scanPlan(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get installment plan: %w", err)
	}
	if p.Installments, err = r.installments(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func scanPlan(row pgx.Row) (*entity.InstallmentPlan, error) {
	var p entity.InstallmentPlan
	err := row.Scan(&p.ID, &p.PurchaseID, &p.TotalAmount, &p.InstallmentCount, &p.InstallmentAmount,
		&p.Frequency, &p.StartDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *InstallmentPlanRepo) installments(ctx context.Context, planID string) ([]entity.Installment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT installment_number, due_date, amount, status, paid_amount, paid_date, payment_method, notes
		FROM installments WHERE plan_id = $1 ORDER BY installment_number`, planID)
	if err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	defer rows.Close()
	var list []entity.Installment
	for rows.Next() {
		var inst entity.Installment
		if err := rows.Scan(&inst.InstallmentNumber, &inst.DueDate, &inst.Amount, &inst.Status,
			&inst.PaidAmount, &inst.PaidDate, &inst.PaymentMethod, &inst.Notes); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		list = append(list, inst)
	}
	return list, rows.Err()
}

// UpdateInstallment escribe el estado de pago de una cuota.
func (r *InstallmentPlanRepo) UpdateInstallment(ctx context.Context, planID string, inst entity.Installment) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE installments
		SET status = $3, paid_amount = $4, paid_date = $5, payment_method = $6, notes = $7
		WHERE plan_id = $1 AND installment_number = $2`,
		planID, inst.InstallmentNumber, inst.Status, inst.PaidAmount, inst.PaidDate, inst.PaymentMethod, inst.Notes,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrExceedsInstallment
		}
		return fmt.Errorf("update installment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	_, err = r.q.Exec(ctx, `UPDATE installment_plans SET updated_at = now() WHERE id = $1`, planID)
	if err != nil {
		return fmt.Errorf("touch installment plan: %w", err)
	}
	return nil
}

// MarkOverdue actualización condicional: solo cambia cuotas que siguen pending/partial,
// así un abono concurrente que ya la saldó no se pisa.
func (r *InstallmentPlanRepo) MarkOverdue(ctx context.Context, planID string, installmentNumber int) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE installments SET status = 'overdue'
		WHERE plan_id = $1 AND installment_number = $2 AND status IN ('pending', 'partial')`,
		planID, installmentNumber,
	)
	if err != nil {
		return false, fmt.Errorf("mark installment overdue: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListAll devuelve todos los planes con sus cuotas (barrido de vencidas).
func (r *InstallmentPlanRepo) ListAll(ctx context.Context) ([]*entity.InstallmentPlan, error) {
	rows, err := r.q.Query(ctx, `SELECT `+planColumns+` FROM installment_plans ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list installment plans: %w", err)
	}
	var plans []*entity.InstallmentPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan installment plan: %w", err)
		}
		plans = append(plans, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Las cuotas se cargan después de cerrar rows: una tx no admite dos queries abiertas.
	for _, p := range plans {
		if p.Installments, err = r.installments(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return plans, nil
}
