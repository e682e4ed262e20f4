package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/checkout"
	"github.com/jhoicas/Farmacia-api/internal/application/credit"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/installment"
	"github.com/jhoicas/Farmacia-api/internal/application/loyalty"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/pricing"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

var apiNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

// buildAPI arma la API completa sobre el store en memoria con reloj fijo.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	require.NoError(t, repos.Customers.Create(context.Background(), &entity.Customer{
		ID: "c1", Name: "Ana", LoyaltyPoints: decimal.NewFromInt(200), CreatedAt: apiNow,
	}))

	clock := func() time.Time { return apiNow }
	log := zerolog.Nop()
	engine := pricing.NewEngine(
		pricing.NewDiscountPolicy(decimal.NewFromInt(5)),
		pricing.NewLoyaltyProgram(pricing.DefaultPointsPerThousand),
	)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Checkout:       checkout.NewUseCase(store, repos.Customers, engine, clock, log),
		SaleLedger:     credit.NewSaleLedgerUseCase(store, repos.Sales, nil, clock, log),
		PurchaseLedger: credit.NewPurchaseLedgerUseCase(store, repos.Purchases, clock, log),
		Installments:   installment.NewUseCase(store, repos.Plans, repos.Purchases, clock, log),
		Loyalty:        loyalty.NewLedger(repos.Customers, log),
		Idempotency:    memory.NewIdempotencyStore(time.Now),
		IdempotencyTTL: time.Minute,
		JWTSecret:      testJWTSecret,
		Log:            log,
	})
	return app
}

type call struct {
	method string
	path   string
	role   string
	body   any
	idem   string
}

func (c call) do(t *testing.T, app *fiber.App, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		if raw, ok := c.body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(c.body))
		}
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, c.role))
	if c.idem != "" {
		req.Header.Set(apphttp.HeaderIdempotencyKey, c.idem)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func creditCheckout(initial string) dto.CheckoutRequest {
	ip := amount(initial)
	return dto.CheckoutRequest{
		CartRequest: dto.CartRequest{
			CustomerID: "c1",
			Lines: []dto.CartLineRequest{{
				ItemID: "lote-1", Kind: "inventory",
				UnitPrice: amount("100"), UnitQuantity: amount("2"), CostPrice: amount("60"),
			}},
		},
		InitialPayment: &ip,
	}
}

// ─── Ventas ───────────────────────────────────────────────────────────────────

func TestAPI_VentaACreditoYAbonos(t *testing.T) {
	app := buildAPI(t)

	var sale dto.SaleResponse
	resp := call{method: http.MethodPost, path: "/api/sales", role: apphttp.RoleCashier, body: creditCheckout("50")}.do(t, app, &sale)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "200", sale.TotalAmount.String())
	assert.Equal(t, "150", sale.DueAmount.String())
	assert.Equal(t, entity.PaymentStatusPartial, sale.PaymentStatus)

	pay := dto.PaymentRequest{Amount: amount("150"), PaymentMethod: entity.PaymentMethodCard}
	var res dto.PaymentResultResponse
	resp = call{method: http.MethodPost, path: "/api/sales/" + sale.ID + "/payments", role: apphttp.RoleCashier, body: pay, idem: "k-1"}.do(t, app, &res)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, res.IsPaid)
	assert.True(t, res.NewDueAmount.IsZero())

	// Doble envío con la misma llave
	resp = call{method: http.MethodPost, path: "/api/sales/" + sale.ID + "/payments", role: apphttp.RoleCashier, body: pay, idem: "k-1"}.do(t, app, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_REQUEST", errorCode(t, resp))

	// Venta ya saldada
	resp = call{method: http.MethodPost, path: "/api/sales/" + sale.ID + "/payments", role: apphttp.RoleCashier, body: dto.PaymentRequest{Amount: amount("1")}, idem: "k-2"}.do(t, app, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EXCEEDS_DUE", errorCode(t, resp))

	var got dto.SaleResponse
	resp = call{method: http.MethodGet, path: "/api/sales/" + sale.ID, role: apphttp.RoleCashier}.do(t, app, &got)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)
	assert.Equal(t, "200", got.TotalPaid.String())
	assert.Len(t, got.PaymentHistory, 1, "el pago inicial no forma parte del historial")
}

func TestAPI_LlaveLiberadaTrasError(t *testing.T) {
	app := buildAPI(t)
	var sale dto.SaleResponse
	call{method: http.MethodPost, path: "/api/sales", role: apphttp.RoleCashier, body: creditCheckout("0")}.do(t, app, &sale)

	path := "/api/sales/" + sale.ID + "/payments"
	resp := call{method: http.MethodPost, path: path, role: apphttp.RoleCashier, body: dto.PaymentRequest{Amount: amount("-5")}, idem: "k-1"}.do(t, app, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INVALID_AMOUNT", errorCode(t, resp))

	resp = call{method: http.MethodPost, path: path, role: apphttp.RoleCashier, body: dto.PaymentRequest{Amount: amount("5")}, idem: "k-1"}.do(t, app, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode, "la llave de un pago rechazado se puede reutilizar")
}

func TestAPI_Errores(t *testing.T) {
	app := buildAPI(t)

	resp := call{method: http.MethodGet, path: "/api/sales/no-existe", role: apphttp.RoleCashier}.do(t, app, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))

	resp = call{method: http.MethodPost, path: "/api/pricing/quote", role: apphttp.RoleCashier, body: "{no json"}.do(t, app, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, resp))

	resp = call{method: http.MethodPost, path: "/api/installment-plans/p1/installments/abc/payments", role: apphttp.RoleAdmin, body: dto.PaymentRequest{Amount: amount("1")}}.do(t, app, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// ─── Precios ──────────────────────────────────────────────────────────────────

func TestAPI_CotizacionYDescuento(t *testing.T) {
	app := buildAPI(t)

	var q dto.QuoteResponse
	resp := call{method: http.MethodPost, path: "/api/pricing/quote", role: apphttp.RoleCashier, body: creditCheckout("0").CartRequest}.do(t, app, &q)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "200", q.FinalAmount.String())
	assert.Equal(t, "80", q.Profit.String())

	pct := amount("10")
	var d dto.DiscountResponse
	resp = call{method: http.MethodPost, path: "/api/pricing/discount", role: apphttp.RoleCashier, body: dto.DiscountRequest{
		Action: "apply", Total: amount("200"), Percentage: &pct,
	}}.do(t, app, &d)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "5", d.Percentage.String(), "recortado al tope")
	assert.Equal(t, "190", d.FinalAmount.String())
	assert.NotEmpty(t, d.Warnings)
}

// ─── Compras y cuotas ─────────────────────────────────────────────────────────

func TestAPI_CompraConPlanDeCuotas(t *testing.T) {
	app := buildAPI(t)

	create := dto.CreatePurchaseRequest{SupplierID: "prov-1", PurchaseDate: "2024-03-20", TotalAmount: amount("300")}
	resp := call{method: http.MethodPost, path: "/api/purchases", role: apphttp.RoleCashier, body: create}.do(t, app, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "caja no registra compras")

	var pu dto.PurchaseResponse
	resp = call{method: http.MethodPost, path: "/api/purchases", role: apphttp.RoleAdmin, body: create}.do(t, app, &pu)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "300", pu.DueAmount.String())

	var plan dto.InstallmentPlanResponse
	resp = call{method: http.MethodPost, path: "/api/purchases/" + pu.ID + "/installment-plan", role: apphttp.RolePharmacist, body: dto.CreatePlanRequest{
		InstallmentCount: 3, Frequency: entity.FrequencyMonthly, StartDate: "2024-04-01",
	}}.do(t, app, &plan)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Len(t, plan.Installments, 3)

	// Con plan no se aceptan abonos directos
	resp = call{method: http.MethodPost, path: "/api/purchases/" + pu.ID + "/payments", role: apphttp.RoleAdmin, body: dto.PaymentRequest{Amount: amount("10")}}.do(t, app, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var overdue []dto.OverdueInstallmentResponse
	resp = call{method: http.MethodGet, path: "/api/installments/overdue", role: apphttp.RoleAdmin}.do(t, app, &overdue)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, overdue, 2, "abril y mayo vencidas al 15 de mayo")

	var paid dto.InstallmentPaymentResponse
	resp = call{method: http.MethodPost, path: "/api/installment-plans/" + plan.ID + "/installments/1/payments", role: apphttp.RoleAdmin, body: dto.PaymentRequest{Amount: amount("100")}, idem: "cuota-1"}.do(t, app, &paid)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, "200", paid.PurchaseDue.String())

	resp = call{method: http.MethodPost, path: "/api/installment-plans/" + plan.ID + "/installments/1/payments", role: apphttp.RoleAdmin, body: dto.PaymentRequest{Amount: amount("1")}}.do(t, app, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_PAID", errorCode(t, resp))

	resp = call{method: http.MethodGet, path: "/api/installments/overdue", role: apphttp.RoleAdmin}.do(t, app, &overdue)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, overdue, 1)

	var recomputed dto.PurchaseResponse
	resp = call{method: http.MethodPost, path: "/api/purchases/" + pu.ID + "/recompute", role: apphttp.RoleAdmin}.do(t, app, &recomputed)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "200", recomputed.DueAmount.String())

	var got dto.InstallmentPlanResponse
	resp = call{method: http.MethodGet, path: "/api/purchases/" + pu.ID + "/installment-plan", role: apphttp.RoleAdmin}.do(t, app, &got)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.InstallmentPaid, got.Installments[0].Status)
}

// ─── Fidelización ─────────────────────────────────────────────────────────────

func TestAPI_Puntos(t *testing.T) {
	app := buildAPI(t)

	var bal dto.LoyaltyBalanceResponse
	resp := call{method: http.MethodGet, path: "/api/customers/c1/loyalty", role: apphttp.RoleCashier}.do(t, app, &bal)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "200", bal.Points.String())

	adjust := dto.LoyaltyAdjustRequest{Delta: amount("25.5")}
	resp = call{method: http.MethodPost, path: "/api/customers/c1/loyalty/adjustments", role: apphttp.RoleCashier, body: adjust}.do(t, app, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = call{method: http.MethodPost, path: "/api/customers/c1/loyalty/adjustments", role: apphttp.RoleAdmin, body: adjust}.do(t, app, &bal)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "225.5", bal.Points.String())

	resp = call{method: http.MethodPost, path: "/api/customers/c1/loyalty/adjustments", role: apphttp.RoleAdmin, body: dto.LoyaltyAdjustRequest{Delta: amount("-1000")}}.do(t, app, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_POINTS", errorCode(t, resp))
}
