package credit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/ledger"
	"github.com/jhoicas/Farmacia-api/internal/domain/money"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// PurchaseLedgerUseCase compras a proveedor y sus abonos directos.
type PurchaseLedgerUseCase struct {
	tx        ports.TxRunner
	purchases repository.PurchaseRepository
	now       ports.Clock
	log       zerolog.Logger
}

// NewPurchaseLedgerUseCase construye el caso de uso.
func NewPurchaseLedgerUseCase(
	tx ports.TxRunner,
	purchases repository.PurchaseRepository,
	now ports.Clock,
	log zerolog.Logger,
) *PurchaseLedgerUseCase {
	if now == nil {
		now = time.Now
	}
	return &PurchaseLedgerUseCase{tx: tx, purchases: purchases, now: now, log: log}
}

// CreatePurchase registra la compra con su pago inicial.
func (uc *PurchaseLedgerUseCase) CreatePurchase(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if strings.TrimSpace(in.SupplierID) == "" {
		return nil, fmt.Errorf("%w: proveedor requerido", domain.ErrInvalidInput)
	}
	if !in.TotalAmount.IsPositive() || !in.TotalAmount.Equal(money.Round2(in.TotalAmount)) ||
		!in.InitialPayment.Equal(money.Round2(in.InitialPayment)) {
		return nil, domain.ErrInvalidAmount
	}
	due, err := ledger.OpenBalance(in.TotalAmount, in.InitialPayment)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	date, err := dto.ParseDate(in.PurchaseDate)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = now
	}

	p := &entity.Purchase{
		ID:             uuid.New().String(),
		SupplierID:     in.SupplierID,
		InvoiceNumber:  in.InvoiceNumber,
		PurchaseDate:   date,
		TotalAmount:    in.TotalAmount,
		InitialPayment: in.InitialPayment,
		DueAmount:      due,
		PaymentStatus:  ledger.StatusOf(in.TotalAmount, due),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.purchases.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("purchase_id", p.ID).Str("due", due.String()).Msg("compra registrada")
	return dto.NewPurchaseResponse(p), nil
}

// GetPurchase compra con sus agregados de pago.
func (uc *PurchaseLedgerUseCase) GetPurchase(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewPurchaseResponse(p), nil
}

// RecordPayment abono directo. Una compra con plan de cuotas se paga por cuota (ErrConflict).
func (uc *PurchaseLedgerUseCase) RecordPayment(ctx context.Context, purchaseID string, in dto.PaymentRequest) (*dto.PaymentResultResponse, error) {
	p, err := ToPayment(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	var res ledger.Result
	err = uc.tx.RunLedger(ctx, func(repos ports.Repos) error {
		pu, err := repos.Purchases.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if pu == nil {
			return domain.ErrNotFound
		}
		res, err = ledger.RecordPurchasePayment(pu, p, now)
		if err != nil {
			return err
		}
		return repos.Purchases.AppendPayment(ctx, pu, res.Record)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("purchase_id", purchaseID).
		Str("amount", res.Record.Amount.String()).
		Str("status", res.Status).
		Msg("abono a compra registrado")
	return dto.NewPaymentResult(res), nil
}
