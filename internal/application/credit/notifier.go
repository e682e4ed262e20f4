package credit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

var _ ports.SaleCompletedNotifier = LogNotifier{}

// LogNotifier deja constancia en el log de las ventas saldadas.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) SaleCompleted(_ context.Context, sale *entity.Sale) {
	n.Log.Info().
		Str("sale_id", sale.ID).
		Str("customer_id", sale.CustomerID).
		Str("total", sale.TotalAmount.String()).
		Int("payments", len(sale.PaymentHistory)).
		Msg("venta a crédito saldada")
}
