package ports

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Sales     repository.SaleRepository
	Purchases repository.PurchaseRepository
	Plans     repository.InstallmentPlanRepository
	Customers repository.CustomerRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil, Rollback si no.
// No reintenta: un error de escritura llega al caller tal cual.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(repos Repos) error) error
}
