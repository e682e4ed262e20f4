package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/pricing"
)

// CartLineRequest línea del carrito tal como la envía la caja.
type CartLineRequest struct {
	ItemID                 string          `json:"item_id"`
	Name                   string          `json:"name,omitempty"`
	Kind                   string          `json:"kind"`    // inventory | secondary
	IsFree                 bool            `json:"is_free"` // mercadería promocional
	ExpiryDate             string          `json:"expiry_date,omitempty"`
	UnitPrice              decimal.Decimal `json:"unit_price"`
	SubUnitPrice           decimal.Decimal `json:"sub_unit_price"`
	UnitQuantity           decimal.Decimal `json:"unit_quantity"`
	SubUnitQuantity        decimal.Decimal `json:"sub_unit_quantity"`
	CostPrice              decimal.Decimal `json:"cost_price"`
	SubUnitCostPrice       decimal.Decimal `json:"sub_unit_cost_price"`
	IsPriceAdjusted        bool            `json:"is_price_adjusted"`
	OriginalUnitPrice      decimal.Decimal `json:"original_unit_price"`
	ItemDiscountPercentage decimal.Decimal `json:"item_discount_percentage"`
}

// CartRequest carrito con modificadores de transacción.
type CartRequest struct {
	CustomerID         string            `json:"customer_id,omitempty"`
	PatientType        string            `json:"patient_type,omitempty"` // local | foreign
	Lines              []CartLineRequest `json:"lines"`
	DiscountPercentage decimal.Decimal   `json:"discount_percentage"`
	UseLoyaltyPoints   bool              `json:"use_loyalty_points"`
	IsInsurancePatient bool              `json:"is_insurance_patient"`
	IsFreeBill         bool              `json:"is_free_bill"`
}

// PricedLineResponse línea valorada.
type PricedLineResponse struct {
	ItemID       string          `json:"item_id"`
	Name         string          `json:"name,omitempty"`
	Kind         string          `json:"kind"`
	IsFree       bool            `json:"is_free"`
	GrossPrice   decimal.Decimal `json:"gross_price"`
	ItemDiscount decimal.Decimal `json:"item_discount"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// QuoteResponse desglose del carrito (vista previa, sin efectos).
type QuoteResponse struct {
	Lines              []PricedLineResponse `json:"lines"`
	Subtotal           decimal.Decimal      `json:"subtotal"`
	ItemDiscountTotal  decimal.Decimal      `json:"item_discount_total"`
	DiscountPercentage decimal.Decimal      `json:"discount_percentage"`
	IsCustomerDiscount bool                 `json:"is_customer_discount"`
	CartDiscount       decimal.Decimal      `json:"cart_discount"`
	LoyaltyDiscount    decimal.Decimal      `json:"loyalty_discount"`
	FinalAmount        decimal.Decimal      `json:"final_amount"`
	TotalCost          decimal.Decimal      `json:"total_cost"`
	Profit             decimal.Decimal      `json:"profit"`
	LoyaltyAccrual     decimal.Decimal      `json:"loyalty_accrual"`
	Warnings           []pricing.Warning    `json:"warnings"`
}

// DiscountRequest body para POST /api/pricing/discount.
// Action: apply (por defecto) | remove | preset.
type DiscountRequest struct {
	Action             string           `json:"action,omitempty"`
	Total              decimal.Decimal  `json:"total"`
	CurrentPercentage  decimal.Decimal  `json:"current_percentage"`
	IsCustomerDiscount bool             `json:"is_customer_discount"`
	Percentage         *decimal.Decimal `json:"percentage,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Preset             int              `json:"preset,omitempty"`
}

// DiscountResponse resultado de la política de descuentos.
type DiscountResponse struct {
	Applied            bool              `json:"applied"`
	IsCustomerDiscount bool              `json:"is_customer_discount"`
	Percentage         decimal.Decimal   `json:"percentage"`
	Amount             decimal.Decimal   `json:"amount"`
	FinalAmount        decimal.Decimal   `json:"final_amount"`
	Warnings           []pricing.Warning `json:"warnings"`
}
