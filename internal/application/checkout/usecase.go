// Package checkout valora carritos y cierra ventas.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/ledger"
	"github.com/jhoicas/Farmacia-api/internal/domain/money"
	"github.com/jhoicas/Farmacia-api/internal/domain/pricing"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// UseCase cotización y cierre de ventas.
type UseCase struct {
	tx        ports.TxRunner
	customers repository.CustomerRepository
	engine    pricing.Engine
	now       ports.Clock
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso. now nil usa time.Now.
func NewUseCase(
	tx ports.TxRunner,
	customers repository.CustomerRepository,
	engine pricing.Engine,
	now ports.Clock,
	log zerolog.Logger,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{tx: tx, customers: customers, engine: engine, now: now, log: log}
}

// Quote vista previa del carrito: no escribe nada.
func (uc *UseCase) Quote(ctx context.Context, in dto.CartRequest) (*dto.QuoteResponse, error) {
	cart, err := BuildCart(in)
	if err != nil {
		return nil, err
	}
	customer, err := loadCustomer(ctx, uc.customers, in.CustomerID)
	if err != nil {
		return nil, err
	}
	b, err := uc.engine.Price(cart, customer)
	if err != nil {
		return nil, err
	}
	return dto.NewQuoteResponse(b), nil
}

// ApplyDiscount aplica, quita o preselecciona el descuento de carrito según la política.
func (uc *UseCase) ApplyDiscount(in dto.DiscountRequest) (*dto.DiscountResponse, error) {
	state := pricing.CartDiscount{Percentage: in.CurrentPercentage, FromCustomer: in.IsCustomerDiscount}
	var (
		m   pricing.Mutation
		err error
	)
	switch in.Action {
	case "", "apply":
		req := pricing.DiscountRequest{Percentage: in.Percentage, Amount: in.Amount}
		m, err = uc.engine.Discounts.Apply(state, in.Total, req)
	case "remove":
		m, err = uc.engine.Discounts.Remove(state, in.Total)
	case "preset":
		m, err = uc.engine.Discounts.Preset(state, in.Total, in.Preset)
	default:
		return nil, fmt.Errorf("%w: acción %q", domain.ErrInvalidInput, in.Action)
	}
	if err != nil {
		return nil, err
	}
	return dto.NewDiscountResponse(m), nil
}

// Checkout valora el carrito y crea la venta en una transacción. Con pago
// inicial menor al total la venta queda a crédito (requiere cliente). Los
// puntos ganados menos los canjeados se aplican en la misma transacción.
func (uc *UseCase) Checkout(ctx context.Context, userID string, in dto.CheckoutRequest) (*dto.SaleResponse, error) {
	cart, err := BuildCart(in.CartRequest)
	if err != nil {
		return nil, err
	}
	method := in.PaymentMethod
	if method == "" {
		method = entity.PaymentMethodCash
	}
	if !entity.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, method)
	}
	if in.InitialPayment != nil && !in.InitialPayment.Equal(money.Round2(*in.InitialPayment)) {
		return nil, domain.ErrInvalidAmount
	}

	var (
		sale     *entity.Sale
		warnings []pricing.Warning
	)
	now := uc.now()
	err = uc.tx.RunLedger(ctx, func(repos ports.Repos) error {
		customer, err := loadCustomer(ctx, repos.Customers, in.CustomerID)
		if err != nil {
			return err
		}
		b, err := uc.engine.Price(cart, customer)
		if err != nil {
			return err
		}
		warnings = b.Warnings

		initial := b.FinalAmount
		if in.InitialPayment != nil {
			initial = *in.InitialPayment
		}
		due, err := ledger.OpenBalance(b.FinalAmount, initial)
		if err != nil {
			return err
		}
		if due.IsPositive() && customer == nil {
			return fmt.Errorf("%w: una venta a crédito requiere cliente", domain.ErrInvalidInput)
		}

		sale = newSale(cart, b, customer, userID, method, initial, due, now)
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		if customer != nil {
			delta := b.LoyaltyAccrual.Sub(b.LoyaltyDiscount)
			if !delta.IsZero() {
				if _, err := repos.Customers.AdjustLoyaltyPoints(ctx, customer.ID, delta); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("total", sale.TotalAmount.String()).
		Str("due", sale.DueAmount.String()).
		Msg("venta registrada")
	return dto.NewSaleResponse(sale, warnings), nil
}

func loadCustomer(ctx context.Context, repo repository.CustomerRepository, id string) (*entity.Customer, error) {
	if id == "" {
		return nil, nil
	}
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}

func newSale(
	cart *pricing.Cart,
	b pricing.Breakdown,
	customer *entity.Customer,
	userID, method string,
	initial, due decimal.Decimal,
	now time.Time,
) *entity.Sale {
	s := &entity.Sale{
		ID:                 uuid.New().String(),
		PatientType:        cart.PatientType(),
		OriginalAmount:     b.Subtotal,
		DiscountPercentage: b.DiscountPercentage,
		DiscountAmount:     b.CartDiscount,
		LoyaltyRedeemed:    b.LoyaltyDiscount,
		LoyaltyEarned:      b.LoyaltyAccrual,
		TotalAmount:        b.FinalAmount,
		TotalCost:          b.TotalCost,
		Profit:             b.Profit,
		InitialPayment:     money.Round2(initial),
		DueAmount:          due,
		PaymentMethod:      method,
		IsFreeBill:         cart.IsFreeBill,
		IsInsurancePatient: cart.IsInsurancePatient,
		CreatedBy:          userID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if customer != nil {
		s.CustomerID = customer.ID
	}
	for _, pl := range b.Lines {
		l := pl.Line
		s.Items = append(s.Items, entity.SaleItem{
			ID:                     uuid.New().String(),
			SaleID:                 s.ID,
			Kind:                   string(l.Kind),
			ItemID:                 l.ItemID,
			Name:                   l.Name,
			UnitQuantity:           l.UnitQuantity,
			SubUnitQuantity:        l.SubUnitQuantity,
			UnitPrice:              l.UnitPrice,
			SubUnitPrice:           l.SubUnitPrice,
			ItemDiscountPercentage: l.ItemDiscountPercentage,
			IsFree:                 l.Pricing == pricing.LineFree,
			IsPriceAdjusted:        l.IsPriceAdjusted,
			OriginalUnitPrice:      l.OriginalUnitPrice,
			TotalPrice:             pl.TotalPrice,
			TotalCost:              pl.TotalCost,
		})
	}
	return s
}
