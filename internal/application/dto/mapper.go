package dto

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/ledger"
	"github.com/jhoicas/Farmacia-api/internal/domain/pricing"
)

// NewSaleResponse arma la respuesta de una venta.
func NewSaleResponse(s *entity.Sale, warnings []pricing.Warning) *SaleResponse {
	out := &SaleResponse{
		ID:                 s.ID,
		CustomerID:         s.CustomerID,
		PatientType:        s.PatientType,
		OriginalAmount:     s.OriginalAmount,
		DiscountPercentage: s.DiscountPercentage,
		DiscountAmount:     s.DiscountAmount,
		LoyaltyRedeemed:    s.LoyaltyRedeemed,
		LoyaltyEarned:      s.LoyaltyEarned,
		TotalAmount:        s.TotalAmount,
		TotalCost:          s.TotalCost,
		Profit:             s.Profit,
		InitialPayment:     s.InitialPayment,
		TotalPaid:          ledger.TotalPaid(s),
		DueAmount:          s.DueAmount,
		PaymentStatus:      ledger.StatusOf(s.TotalAmount, s.DueAmount),
		PaymentMethod:      s.PaymentMethod,
		IsFreeBill:         s.IsFreeBill,
		IsInsurancePatient: s.IsInsurancePatient,
		Items:              make([]SaleItemResponse, 0, len(s.Items)),
		PaymentHistory:     NewPaymentRecords(s.PaymentHistory),
		Warnings:           warnings,
		CreatedAt:          s.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemResponse{
			ItemID:          it.ItemID,
			Name:            it.Name,
			Kind:            it.Kind,
			IsFree:          it.IsFree,
			UnitQuantity:    it.UnitQuantity,
			SubUnitQuantity: it.SubUnitQuantity,
			TotalPrice:      it.TotalPrice,
			TotalCost:       it.TotalCost,
		})
	}
	return out
}

// NewPaymentRecords convierte el historial de abonos.
func NewPaymentRecords(recs []entity.PaymentRecord) []PaymentRecordResponse {
	out := make([]PaymentRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, NewPaymentRecord(r))
	}
	return out
}

// NewPaymentRecord convierte un abono.
func NewPaymentRecord(r entity.PaymentRecord) PaymentRecordResponse {
	return PaymentRecordResponse{
		ID:            r.ID,
		Amount:        r.Amount,
		Date:          FormatDate(r.Date),
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
	}
}

// NewPaymentResult respuesta de un abono a venta o compra.
func NewPaymentResult(res ledger.Result) *PaymentResultResponse {
	return &PaymentResultResponse{
		IsPaid:        res.IsPaid,
		NewDueAmount:  res.NewDueAmount,
		PaymentStatus: res.Status,
		Payment:       NewPaymentRecord(res.Record),
	}
}

// NewPurchaseResponse arma la respuesta de una compra.
func NewPurchaseResponse(p *entity.Purchase) *PurchaseResponse {
	return &PurchaseResponse{
		ID:                 p.ID,
		SupplierID:         p.SupplierID,
		InvoiceNumber:      p.InvoiceNumber,
		PurchaseDate:       FormatDate(p.PurchaseDate),
		TotalAmount:        p.TotalAmount,
		InitialPayment:     p.InitialPayment,
		DueAmount:          p.DueAmount,
		PaymentStatus:      p.PaymentStatus,
		HasInstallmentPlan: p.HasInstallmentPlan,
		InstallmentPlanID:  p.InstallmentPlanID,
		PaymentHistory:     NewPaymentRecords(p.PaymentHistory),
	}
}

// NewInstallmentResponse convierte una cuota.
func NewInstallmentResponse(inst entity.Installment) InstallmentResponse {
	out := InstallmentResponse{
		InstallmentNumber: inst.InstallmentNumber,
		DueDate:           FormatDate(inst.DueDate),
		Amount:            inst.Amount,
		PaidAmount:        inst.PaidAmount,
		Remaining:         inst.Remaining(),
		Status:            inst.Status,
		PaymentMethod:     inst.PaymentMethod,
		Notes:             inst.Notes,
	}
	if inst.PaidDate != nil {
		out.PaidDate = FormatDate(*inst.PaidDate)
	}
	return out
}

// NewInstallmentPlanResponse arma la respuesta de un plan.
func NewInstallmentPlanResponse(p *entity.InstallmentPlan) *InstallmentPlanResponse {
	out := &InstallmentPlanResponse{
		ID:                p.ID,
		PurchaseID:        p.PurchaseID,
		TotalAmount:       p.TotalAmount,
		InstallmentCount:  p.InstallmentCount,
		InstallmentAmount: p.InstallmentAmount,
		Frequency:         p.Frequency,
		StartDate:         FormatDate(p.StartDate),
		Installments:      make([]InstallmentResponse, 0, len(p.Installments)),
	}
	for _, inst := range p.Installments {
		out.Installments = append(out.Installments, NewInstallmentResponse(inst))
	}
	return out
}

// NewQuoteResponse convierte el desglose del motor de precios.
func NewQuoteResponse(b pricing.Breakdown) *QuoteResponse {
	out := &QuoteResponse{
		Lines:              make([]PricedLineResponse, 0, len(b.Lines)),
		Subtotal:           b.Subtotal,
		ItemDiscountTotal:  b.ItemDiscountTotal,
		DiscountPercentage: b.DiscountPercentage,
		IsCustomerDiscount: b.IsCustomerDiscount,
		CartDiscount:       b.CartDiscount,
		LoyaltyDiscount:    b.LoyaltyDiscount,
		FinalAmount:        b.FinalAmount,
		TotalCost:          b.TotalCost,
		Profit:             b.Profit,
		LoyaltyAccrual:     b.LoyaltyAccrual,
		Warnings:           b.Warnings,
	}
	if out.Warnings == nil {
		out.Warnings = []pricing.Warning{}
	}
	for _, pl := range b.Lines {
		out.Lines = append(out.Lines, PricedLineResponse{
			ItemID:       pl.Line.ItemID,
			Name:         pl.Line.Name,
			Kind:         string(pl.Line.Kind),
			IsFree:       pl.Line.Pricing == pricing.LineFree,
			GrossPrice:   pl.GrossPrice,
			ItemDiscount: pl.ItemDiscount,
			TotalPrice:   pl.TotalPrice,
			TotalCost:    pl.TotalCost,
		})
	}
	return out
}

// NewDiscountResponse convierte el resultado de Apply/Remove/Preset.
func NewDiscountResponse(m pricing.Mutation) *DiscountResponse {
	out := &DiscountResponse{
		Applied:            m.Applied,
		IsCustomerDiscount: m.State.FromCustomer,
		Percentage:         m.Discount.Percentage,
		Amount:             m.Discount.Amount,
		FinalAmount:        m.Discount.FinalAmount,
		Warnings:           m.Discount.Warnings,
	}
	if out.Warnings == nil {
		out.Warnings = []pricing.Warning{}
	}
	return out
}
