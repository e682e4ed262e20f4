package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Liquidación de ventas a crédito y compras a proveedores.
	ErrInvalidAmount      = errors.New("monto inválido: debe ser mayor que cero")
	ErrExceedsDue         = errors.New("el pago excede el saldo pendiente")
	ErrExceedsInstallment = errors.New("el pago excede el saldo de la cuota")
	ErrAlreadyPaid        = errors.New("ya se encuentra pagado")
	ErrNothingToPlan      = errors.New("la compra no tiene saldo pendiente para financiar")
	ErrMissingCustomDate  = errors.New("falta la fecha de vencimiento de una cuota personalizada")

	// Precios y fidelización.
	ErrDiscountCeilingExceeded = errors.New("el descuento supera el máximo permitido")
	ErrInsufficientPoints      = errors.New("puntos de fidelización insuficientes")
	ErrPatientTypeLocked       = errors.New("el tipo de paciente no puede cambiar con ítems en el carrito")
)
