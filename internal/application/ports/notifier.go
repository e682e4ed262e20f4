package ports

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// SaleCompletedNotifier recibe la venta cuando un abono la salda por completo.
// Los abonos parciales no notifican.
type SaleCompletedNotifier interface {
	SaleCompleted(ctx context.Context, sale *entity.Sale)
}

// Clock permite fijar la hora en tests.
type Clock func() time.Time
