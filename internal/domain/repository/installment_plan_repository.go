package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// InstallmentPlanRepository puerto de persistencia de planes de cuotas.
type InstallmentPlanRepository interface {
	// Create guarda el plan y sus cuotas; falla con ErrConflict si la compra ya tiene plan.
	Create(ctx context.Context, plan *entity.InstallmentPlan) error
	GetByPurchaseID(ctx context.Context, purchaseID string) (*entity.InstallmentPlan, error)
	// GetForUpdate bloquea el plan (serializa pagos concurrentes sobre sus cuotas).
	GetForUpdate(ctx context.Context, id string) (*entity.InstallmentPlan, error)
	UpdateInstallment(ctx context.Context, planID string, inst entity.Installment) error
	// MarkOverdue pasa la cuota a overdue solo si sigue pending/partial; false si otro proceso la cambió.
	MarkOverdue(ctx context.Context, planID string, installmentNumber int) (bool, error)
	ListAll(ctx context.Context) ([]*entity.InstallmentPlan, error)
}
