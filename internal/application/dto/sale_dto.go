package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/pricing"
)

// CheckoutRequest body para POST /api/sales.
// InitialPayment nil = pago total; un valor menor al total deja la venta a crédito.
type CheckoutRequest struct {
	CartRequest
	InitialPayment *decimal.Decimal `json:"initial_payment,omitempty"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
}

// PaymentRequest abono a una venta, compra o cuota.
type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Date          string          `json:"date,omitempty"` // YYYY-MM-DD; vacío = hoy
	Notes         string          `json:"notes,omitempty"`
}

// PaymentRecordResponse abono registrado.
type PaymentRecordResponse struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
}

// SaleItemResponse ítem de la venta.
type SaleItemResponse struct {
	ItemID          string          `json:"item_id"`
	Name            string          `json:"name,omitempty"`
	Kind            string          `json:"kind"`
	IsFree          bool            `json:"is_free"`
	UnitQuantity    decimal.Decimal `json:"unit_quantity"`
	SubUnitQuantity decimal.Decimal `json:"sub_unit_quantity"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	TotalCost       decimal.Decimal `json:"total_cost"`
}

// SaleResponse venta con su estado de crédito.
type SaleResponse struct {
	ID                 string                  `json:"id"`
	CustomerID         string                  `json:"customer_id,omitempty"`
	PatientType        string                  `json:"patient_type"`
	OriginalAmount     decimal.Decimal         `json:"original_amount"`
	DiscountPercentage decimal.Decimal         `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal         `json:"discount_amount"`
	LoyaltyRedeemed    decimal.Decimal         `json:"loyalty_redeemed"`
	LoyaltyEarned      decimal.Decimal         `json:"loyalty_earned"`
	TotalAmount        decimal.Decimal         `json:"total_amount"`
	TotalCost          decimal.Decimal         `json:"total_cost"`
	Profit             decimal.Decimal         `json:"profit"`
	InitialPayment     decimal.Decimal         `json:"initial_payment"`
	TotalPaid          decimal.Decimal         `json:"total_paid"`
	DueAmount          decimal.Decimal         `json:"due_amount"`
	PaymentStatus      string                  `json:"payment_status"`
	PaymentMethod      string                  `json:"payment_method"`
	IsFreeBill         bool                    `json:"is_free_bill"`
	IsInsurancePatient bool                    `json:"is_insurance_patient"`
	Items              []SaleItemResponse      `json:"items"`
	PaymentHistory     []PaymentRecordResponse `json:"payment_history"`
	Warnings           []pricing.Warning       `json:"warnings,omitempty"`
	CreatedAt          string                  `json:"created_at"`
}

// PaymentResultResponse resultado de un abono a venta o compra.
type PaymentResultResponse struct {
	IsPaid        bool                  `json:"is_paid"`
	NewDueAmount  decimal.Decimal       `json:"new_due_amount"`
	PaymentStatus string                `json:"payment_status"`
	Payment       PaymentRecordResponse `json:"payment"`
}
