// Package installment administra los planes de cuotas de compras a proveedor.
package installment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/credit"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininst "github.com/jhoicas/Farmacia-api/internal/domain/installment"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// UseCase creación de planes, pago de cuotas y vencimientos.
type UseCase struct {
	tx        ports.TxRunner
	plans     repository.InstallmentPlanRepository
	purchases repository.PurchaseRepository
	now       ports.Clock
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso. now nil usa time.Now.
func NewUseCase(
	tx ports.TxRunner,
	plans repository.InstallmentPlanRepository,
	purchases repository.PurchaseRepository,
	now ports.Clock,
	log zerolog.Logger,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{tx: tx, plans: plans, purchases: purchases, now: now, log: log}
}

// CreatePlan divide el saldo actual de la compra en cuotas. Una compra admite un solo plan.
func (uc *UseCase) CreatePlan(ctx context.Context, purchaseID string, in dto.CreatePlanRequest) (*dto.InstallmentPlanResponse, error) {
	start, err := dto.ParseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	custom := make([]time.Time, 0, len(in.CustomDueDates))
	for _, s := range in.CustomDueDates {
		d, err := dto.ParseDate(s)
		if err != nil {
			return nil, err
		}
		custom = append(custom, d)
	}
	now := uc.now()

	var plan *entity.InstallmentPlan
	err = uc.tx.RunLedger(ctx, func(repos ports.Repos) error {
		pu, err := repos.Purchases.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if pu == nil {
			return domain.ErrNotFound
		}
		if pu.HasInstallmentPlan {
			return fmt.Errorf("%w: la compra ya tiene plan de cuotas", domain.ErrConflict)
		}
		plan, err = domaininst.Generate(domaininst.Params{
			PurchaseID:     pu.ID,
			DueAmount:      pu.DueAmount,
			Count:          in.InstallmentCount,
			Frequency:      in.Frequency,
			StartDate:      start,
			CustomDueDates: custom,
		}, now)
		if err != nil {
			return err
		}
		if err := repos.Plans.Create(ctx, plan); err != nil {
			return err
		}
		pu.HasInstallmentPlan = true
		pu.InstallmentPlanID = plan.ID
		domaininst.Recompute(plan, pu.TotalAmount).ApplyTo(pu, now)
		return repos.Purchases.UpdateAggregate(ctx, pu)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("purchase_id", purchaseID).
		Str("plan_id", plan.ID).
		Int("installments", plan.InstallmentCount).
		Str("total", plan.TotalAmount.String()).
		Msg("plan de cuotas creado")
	return dto.NewInstallmentPlanResponse(plan), nil
}

// GetPlan plan de cuotas de una compra.
func (uc *UseCase) GetPlan(ctx context.Context, purchaseID string) (*dto.InstallmentPlanResponse, error) {
	plan, err := uc.plans.GetByPurchaseID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewInstallmentPlanResponse(plan), nil
}

// PayInstallment registra un abono a la cuota y recalcula los agregados de la
// compra en la misma transacción. El plan queda bloqueado mientras tanto, así
// dos abonos a cuotas del mismo plan no se pisan.
func (uc *UseCase) PayInstallment(ctx context.Context, planID string, number int, in dto.PaymentRequest) (*dto.InstallmentPaymentResponse, error) {
	p, err := credit.ToPayment(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	var (
		res domaininst.PayResult
		pu  *entity.Purchase
	)
	err = uc.tx.RunLedger(ctx, func(repos ports.Repos) error {
		plan, err := repos.Plans.GetForUpdate(ctx, planID)
		if err != nil {
			return err
		}
		if plan == nil {
			return domain.ErrNotFound
		}
		// Una cuota vencida que recibe un abono parcial sigue vencida.
		domaininst.MarkOverdue(plan, now)
		res, err = domaininst.Pay(plan, number, p, now)
		if err != nil {
			return err
		}
		if err := repos.Plans.UpdateInstallment(ctx, plan.ID, res.Installment); err != nil {
			return err
		}
		pu, err = repos.Purchases.GetForUpdate(ctx, plan.PurchaseID)
		if err != nil {
			return err
		}
		if pu == nil {
			return fmt.Errorf("%w: compra %s del plan %s", domain.ErrNotFound, plan.PurchaseID, plan.ID)
		}
		domaininst.Recompute(plan, pu.TotalAmount).ApplyTo(pu, now)
		return repos.Purchases.UpdateAggregate(ctx, pu)
	})
	if err != nil {
		return nil, err
	}

	ev := uc.log.Info()
	if res.IsPaid {
		ev = ev.Bool("installment_paid", true)
	}
	ev.Str("plan_id", planID).
		Int("installment", number).
		Str("remaining", res.Remaining.String()).
		Str("purchase_status", pu.PaymentStatus).
		Msg("abono a cuota registrado")

	return &dto.InstallmentPaymentResponse{
		Installment:   dto.NewInstallmentResponse(res.Installment),
		IsPaid:        res.IsPaid,
		PurchaseDue:   pu.DueAmount,
		PaymentStatus: pu.PaymentStatus,
	}, nil
}

// RecomputePurchase vuelve a derivar saldo y estado de la compra desde su plan.
// Es idempotente; sin plan devuelve la compra tal cual.
func (uc *UseCase) RecomputePurchase(ctx context.Context, purchaseID string) (*dto.PurchaseResponse, error) {
	now := uc.now()
	var pu *entity.Purchase
	err := uc.tx.RunLedger(ctx, func(repos ports.Repos) error {
		var err error
		pu, err = repos.Purchases.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if pu == nil {
			return domain.ErrNotFound
		}
		if !pu.HasInstallmentPlan {
			return nil
		}
		plan, err := repos.Plans.GetByPurchaseID(ctx, purchaseID)
		if err != nil {
			return err
		}
		if plan == nil {
			return fmt.Errorf("%w: la compra %s no tiene plan", domain.ErrConflict, purchaseID)
		}
		domaininst.Recompute(plan, pu.TotalAmount).ApplyTo(pu, now)
		return repos.Purchases.UpdateAggregate(ctx, pu)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewPurchaseResponse(pu), nil
}

// OverdueInstallments cuotas sin completar con vencimiento anterior a hoy. Solo lectura.
func (uc *UseCase) OverdueInstallments(ctx context.Context) ([]dto.OverdueInstallmentResponse, error) {
	plans, err := uc.plans.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	today := uc.now()
	out := []dto.OverdueInstallmentResponse{}
	for _, plan := range plans {
		for _, inst := range plan.Installments {
			if !domaininst.IsOverdue(inst, today) {
				continue
			}
			inst.Status = entity.InstallmentOverdue
			out = append(out, dto.OverdueInstallmentResponse{
				PlanID:      plan.ID,
				PurchaseID:  plan.PurchaseID,
				Installment: dto.NewInstallmentResponse(inst),
			})
		}
	}
	return out, nil
}

// PersistOverdue marca como overdue las cuotas vencidas con una actualización
// condicional por cuota: las que otro proceso ya pagó se saltan. Devuelve cuántas cambiaron.
func (uc *UseCase) PersistOverdue(ctx context.Context) (int, error) {
	plans, err := uc.plans.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	today := uc.now()
	marked := 0
	for _, plan := range plans {
		for _, o := range domaininst.MarkOverdue(plan, today) {
			changed, err := uc.plans.MarkOverdue(ctx, o.PlanID, o.Installment.InstallmentNumber)
			if err != nil {
				return marked, err
			}
			if changed {
				marked++
			}
		}
	}
	if marked > 0 {
		uc.log.Info().Int("marked", marked).Msg("cuotas vencidas marcadas")
	}
	return marked, nil
}
