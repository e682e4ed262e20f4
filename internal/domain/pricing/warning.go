package pricing

// Códigos de advertencia. Una advertencia no invalida la operación.
const (
	WarnDiscountCeilingExceeded     = "DISCOUNT_CEILING_EXCEEDED"
	WarnCustomerDiscountLocked      = "CUSTOMER_DISCOUNT_LOCKED"
	WarnInsuranceSuppressesDiscount = "INSURANCE_SUPPRESSES_DISCOUNT"
	WarnFreeBillSuppressesDiscount  = "FREE_BILL_SUPPRESSES_DISCOUNT"
	WarnLoyaltyWithoutCustomer      = "LOYALTY_WITHOUT_CUSTOMER"
)

// Warning advertencia devuelta junto al cálculo.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func hasWarning(ws []Warning, code string) bool {
	for _, w := range ws {
		if w.Code == code {
			return true
		}
	}
	return false
}
