package dto

import "github.com/shopspring/decimal"

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID     string          `json:"supplier_id"`
	InvoiceNumber  string          `json:"invoice_number,omitempty"`
	PurchaseDate   string          `json:"purchase_date,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	InitialPayment decimal.Decimal `json:"initial_payment"`
}

// PurchaseResponse compra con sus agregados de pago.
type PurchaseResponse struct {
	ID                 string                  `json:"id"`
	SupplierID         string                  `json:"supplier_id"`
	InvoiceNumber      string                  `json:"invoice_number,omitempty"`
	PurchaseDate       string                  `json:"purchase_date"`
	TotalAmount        decimal.Decimal         `json:"total_amount"`
	InitialPayment     decimal.Decimal         `json:"initial_payment"`
	DueAmount          decimal.Decimal         `json:"due_amount"`
	PaymentStatus      string                  `json:"payment_status"`
	HasInstallmentPlan bool                    `json:"has_installment_plan"`
	InstallmentPlanID  string                  `json:"installment_plan_id,omitempty"`
	PaymentHistory     []PaymentRecordResponse `json:"payment_history"`
}

// CreatePlanRequest body para POST /api/purchases/:id/installment-plan.
type CreatePlanRequest struct {
	InstallmentCount int      `json:"installment_count"`
	Frequency        string   `json:"frequency"` // weekly | monthly | custom
	StartDate        string   `json:"start_date,omitempty"`
	CustomDueDates   []string `json:"custom_due_dates,omitempty"`
}

// InstallmentResponse cuota del plan.
type InstallmentResponse struct {
	InstallmentNumber int             `json:"installment_number"`
	DueDate           string          `json:"due_date"`
	Amount            decimal.Decimal `json:"amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	Remaining         decimal.Decimal `json:"remaining"`
	Status            string          `json:"status"`
	PaidDate          string          `json:"paid_date,omitempty"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

// InstallmentPlanResponse plan de cuotas.
type InstallmentPlanResponse struct {
	ID                string                `json:"id"`
	PurchaseID        string                `json:"purchase_id"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	InstallmentCount  int                   `json:"installment_count"`
	InstallmentAmount decimal.Decimal       `json:"installment_amount"`
	Frequency         string                `json:"frequency"`
	StartDate         string                `json:"start_date"`
	Installments      []InstallmentResponse `json:"installments"`
}

// InstallmentPaymentResponse resultado de un abono a cuota.
type InstallmentPaymentResponse struct {
	Installment   InstallmentResponse `json:"installment"`
	IsPaid        bool                `json:"is_paid"`
	PurchaseDue   decimal.Decimal     `json:"purchase_due_amount"`
	PaymentStatus string              `json:"purchase_payment_status"`
}

// OverdueInstallmentResponse cuota vencida encontrada por el barrido.
type OverdueInstallmentResponse struct {
	PlanID      string              `json:"plan_id"`
	PurchaseID  string              `json:"purchase_id"`
	Installment InstallmentResponse `json:"installment"`
}
