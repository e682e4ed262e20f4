package credit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/ledger"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// SaleLedgerUseCase abonos a ventas a crédito.
type SaleLedgerUseCase struct {
	tx       ports.TxRunner
	sales    repository.SaleRepository
	notifier ports.SaleCompletedNotifier
	now      ports.Clock
	log      zerolog.Logger
}

// NewSaleLedgerUseCase construye el caso de uso. notifier puede ser nil.
func NewSaleLedgerUseCase(
	tx ports.TxRunner,
	sales repository.SaleRepository,
	notifier ports.SaleCompletedNotifier,
	now ports.Clock,
	log zerolog.Logger,
) *SaleLedgerUseCase {
	if now == nil {
		now = time.Now
	}
	return &SaleLedgerUseCase{tx: tx, sales: sales, notifier: notifier, now: now, log: log}
}

// GetSale venta con su historial de abonos.
func (uc *SaleLedgerUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewSaleResponse(s, nil), nil
}

// RecordPayment registra un abono bajo bloqueo de fila. Dos abonos concurrentes
// se serializan: el segundo ve el saldo ya reducido. Solo el abono que salda la
// venta dispara la notificación, y lo hace después del commit.
func (uc *SaleLedgerUseCase) RecordPayment(ctx context.Context, saleID string, in dto.PaymentRequest) (*dto.PaymentResultResponse, error) {
	p, err := ToPayment(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	var (
		res  ledger.Result
		sale *entity.Sale
	)
	err = uc.tx.RunLedger(ctx, func(repos ports.Repos) error {
		s, err := repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		res, err = ledger.RecordSalePayment(s, p, now)
		if err != nil {
			return err
		}
		// saldo inconsistente en la fila: no se persiste el abono
		if err := ledger.Validate(s); err != nil {
			return err
		}
		sale = s
		return repos.Sales.AppendPayment(ctx, saleID, res.Record, res.NewDueAmount)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", saleID).
		Str("amount", res.Record.Amount.String()).
		Str("due", res.NewDueAmount.String()).
		Str("status", res.Status).
		Msg("abono a venta registrado")

	if res.IsPaid && uc.notifier != nil {
		uc.notifier.SaleCompleted(ctx, sale)
	}
	return dto.NewPaymentResult(res), nil
}
