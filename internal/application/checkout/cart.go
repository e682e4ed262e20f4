package checkout

import (
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/pricing"
)

// BuildCart traduce el request de caja al carrito del dominio.
// El tipo de paciente se fija antes de agregar líneas.
func BuildCart(in dto.CartRequest) (*pricing.Cart, error) {
	cart, err := pricing.NewCart(in.PatientType)
	if err != nil {
		return nil, err
	}
	cart.DiscountPercentage = in.DiscountPercentage
	cart.UseLoyaltyPoints = in.UseLoyaltyPoints
	cart.IsInsurancePatient = in.IsInsurancePatient
	cart.IsFreeBill = in.IsFreeBill

	for i, l := range in.Lines {
		line, err := buildLine(l)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		if err := cart.AddLine(line); err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
	}
	return cart, nil
}

func buildLine(l dto.CartLineRequest) (pricing.CartLine, error) {
	line := pricing.CartLine{
		ItemID:                 l.ItemID,
		Name:                   l.Name,
		Pricing:                pricing.LinePriced,
		UnitPrice:              l.UnitPrice,
		SubUnitPrice:           l.SubUnitPrice,
		UnitQuantity:           l.UnitQuantity,
		SubUnitQuantity:        l.SubUnitQuantity,
		CostPrice:              l.CostPrice,
		SubUnitCostPrice:       l.SubUnitCostPrice,
		IsPriceAdjusted:        l.IsPriceAdjusted,
		OriginalUnitPrice:      l.OriginalUnitPrice,
		ItemDiscountPercentage: l.ItemDiscountPercentage,
	}
	switch pricing.LineKind(l.Kind) {
	case pricing.LineInventory, pricing.LineSecondary:
		line.Kind = pricing.LineKind(l.Kind)
	case "":
		line.Kind = pricing.LineInventory
	default:
		return pricing.CartLine{}, fmt.Errorf("%w: tipo de línea %q", domain.ErrInvalidInput, l.Kind)
	}
	if l.IsFree {
		line.Pricing = pricing.LineFree
	}
	if l.ExpiryDate != "" {
		d, err := dto.ParseDate(l.ExpiryDate)
		if err != nil {
			return pricing.CartLine{}, err
		}
		line.ExpiryDate = &d
	}
	return line, nil
}
