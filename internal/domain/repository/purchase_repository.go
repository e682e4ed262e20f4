package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// PurchaseRepository puerto de persistencia de compras a proveedor.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	// AppendPayment agrega un abono directo y actualiza saldo y estado.
	AppendPayment(ctx context.Context, purchase *entity.Purchase, rec entity.PaymentRecord) error
	// UpdateAggregate escribe due_amount, payment_status y la referencia al plan.
	UpdateAggregate(ctx context.Context, purchase *entity.Purchase) error
}
