package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas. Las ventas no se eliminan.
// GetByID y GetForUpdate devuelven (nil, nil) si la venta no existe.
type SaleRepository interface {
	// Create guarda cabecera e ítems.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate lee la venta bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// AppendPayment agrega el abono y fija el nuevo saldo.
	AppendPayment(ctx context.Context, saleID string, rec entity.PaymentRecord, newDue decimal.Decimal) error
}
