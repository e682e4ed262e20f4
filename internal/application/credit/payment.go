// Package credit liquida saldos a crédito: ventas con pago inicial parcial y
// compras a proveedor sin plan de cuotas.
package credit

import (
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain/ledger"
)

// ToPayment traduce el request de abono; la validación de monto y método la hace el dominio.
func ToPayment(in dto.PaymentRequest) (ledger.Payment, error) {
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return ledger.Payment{}, err
	}
	return ledger.Payment{
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		Date:          date,
	}, nil
}
