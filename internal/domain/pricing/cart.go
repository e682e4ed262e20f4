package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/money"
)

// LineKind origen de la línea: lote de inventario o ítem secundario (sin lote).
type LineKind string

const (
	LineInventory LineKind = "inventory"
	LineSecondary LineKind = "secondary"
)

// LinePricing si la línea se cobra o es mercadería gratuita.
type LinePricing string

const (
	LinePriced LinePricing = "priced"
	LineFree   LinePricing = "free"
)

var hundredPct = decimal.NewFromInt(100)

// CartLine unidad comprable del carrito.
type CartLine struct {
	ItemID                 string // ID del lote (inventory) o del ítem secundario
	Name                   string
	Kind                   LineKind
	Pricing                LinePricing
	ExpiryDate             *time.Time // solo inventory
	UnitPrice              decimal.Decimal
	SubUnitPrice           decimal.Decimal
	UnitQuantity           decimal.Decimal
	SubUnitQuantity        decimal.Decimal
	CostPrice              decimal.Decimal // costo por unidad
	SubUnitCostPrice       decimal.Decimal // costo por sub-unidad (solo inventory)
	IsPriceAdjusted        bool
	OriginalUnitPrice      decimal.Decimal
	ItemDiscountPercentage decimal.Decimal // 0..100
}

// Validate revisa la combinación de variante y campos.
func (l CartLine) Validate() error {
	switch l.Kind {
	case LineInventory:
		if l.ItemID == "" {
			return fmt.Errorf("%w: línea de inventario sin lote", domain.ErrInvalidInput)
		}
	case LineSecondary:
		if l.ExpiryDate != nil || !l.SubUnitCostPrice.IsZero() {
			return fmt.Errorf("%w: un ítem secundario no tiene lote", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: tipo de línea %q", domain.ErrInvalidInput, l.Kind)
	}
	switch l.Pricing {
	case LinePriced, LineFree:
	default:
		return fmt.Errorf("%w: precio de línea %q", domain.ErrInvalidInput, l.Pricing)
	}
	for _, v := range []decimal.Decimal{l.UnitPrice, l.SubUnitPrice, l.UnitQuantity, l.SubUnitQuantity, l.CostPrice, l.SubUnitCostPrice} {
		if v.IsNegative() {
			return fmt.Errorf("%w: valores negativos en la línea", domain.ErrInvalidInput)
		}
	}
	if l.UnitQuantity.IsZero() && l.SubUnitQuantity.IsZero() {
		return fmt.Errorf("%w: cantidad en cero", domain.ErrInvalidInput)
	}
	if l.ItemDiscountPercentage.IsNegative() || l.ItemDiscountPercentage.GreaterThan(hundredPct) {
		return fmt.Errorf("%w: descuento de ítem fuera de 0..100", domain.ErrInvalidInput)
	}
	if l.IsPriceAdjusted && l.OriginalUnitPrice.IsNegative() {
		return fmt.Errorf("%w: precio original negativo", domain.ErrInvalidInput)
	}
	return nil
}

// GrossPrice unitPrice*unitQuantity + subUnitPrice*subUnitQuantity.
func (l CartLine) GrossPrice() decimal.Decimal {
	return money.Round2(l.UnitPrice.Mul(l.UnitQuantity).Add(l.SubUnitPrice.Mul(l.SubUnitQuantity)))
}

// ItemDiscount descuento propio de la línea.
func (l CartLine) ItemDiscount() decimal.Decimal {
	if l.Pricing == LineFree {
		return decimal.Zero
	}
	return money.ApplyPercentage(l.GrossPrice(), l.ItemDiscountPercentage)
}

// TotalPrice precio de la línea con su descuento de ítem. Las líneas gratuitas aportan 0.
func (l CartLine) TotalPrice() decimal.Decimal {
	if l.Pricing == LineFree {
		return decimal.Zero
	}
	return money.Round2(l.GrossPrice().Sub(l.ItemDiscount()))
}

// TotalCost costo real de la línea; se acumula también en líneas gratuitas.
func (l CartLine) TotalCost() decimal.Decimal {
	return money.Round2(l.CostPrice.Mul(l.UnitQuantity).Add(l.SubUnitCostPrice.Mul(l.SubUnitQuantity)))
}

// Cart carrito con modificadores de transacción.
type Cart struct {
	Lines              []CartLine
	DiscountPercentage decimal.Decimal
	UseLoyaltyPoints   bool
	IsInsurancePatient bool
	IsFreeBill         bool
	patientType        string
}

// NewCart crea un carrito vacío; patientType vacío equivale a local.
func NewCart(patientType string) (*Cart, error) {
	c := &Cart{}
	if err := c.SetPatientType(patientType); err != nil {
		return nil, err
	}
	return c, nil
}

// PatientType tipo de paciente del carrito.
func (c *Cart) PatientType() string {
	return c.patientType
}

// SetPatientType solo se permite con el carrito vacío.
func (c *Cart) SetPatientType(pt string) error {
	if pt == "" {
		pt = entity.PatientTypeLocal
	}
	if pt != entity.PatientTypeLocal && pt != entity.PatientTypeForeign {
		return fmt.Errorf("%w: tipo de paciente %q", domain.ErrInvalidInput, pt)
	}
	if len(c.Lines) > 0 && pt != c.patientType {
		return domain.ErrPatientTypeLocked
	}
	c.patientType = pt
	return nil
}

// AddLine valida y agrega una línea.
func (c *Cart) AddLine(l CartLine) error {
	if err := l.Validate(); err != nil {
		return err
	}
	c.Lines = append(c.Lines, l)
	return nil
}
