package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Farmacia-api/internal/application/checkout"
	"github.com/jhoicas/Farmacia-api/internal/application/credit"
	"github.com/jhoicas/Farmacia-api/internal/application/installment"
	"github.com/jhoicas/Farmacia-api/internal/application/loyalty"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Checkout       *checkout.UseCase
	SaleLedger     *credit.SaleLedgerUseCase
	PurchaseLedger *credit.PurchaseLedgerUseCase
	Installments   *installment.UseCase
	Loyalty        *loyalty.Ledger
	Idempotency    ports.IdempotencyStore // nil: sin protección contra doble envío
	IdempotencyTTL time.Duration
	JWTSecret      string
	Log            zerolog.Logger
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	idem := Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Log)
	backOffice := RequireRole(RoleAdmin, RolePharmacist)

	pricing := NewPricingHandler(deps.Checkout, deps.Log)
	api.Post("/pricing/quote", pricing.Quote)
	api.Post("/pricing/discount", pricing.Discount)

	sales := NewSaleHandler(deps.Checkout, deps.SaleLedger, deps.Log)
	api.Post("/sales", idem, sales.Create)
	api.Get("/sales/:id", sales.GetByID)
	api.Post("/sales/:id/payments", idem, sales.RecordPayment)

	// Compras a proveedor: solo administración y farmacéuticos
	purchases := NewPurchaseHandler(deps.PurchaseLedger, deps.Installments, deps.Log)
	pg := api.Group("/purchases", backOffice)
	pg.Post("/", purchases.Create)
	pg.Get("/:id", purchases.GetByID)
	pg.Post("/:id/payments", idem, purchases.RecordPayment)
	pg.Post("/:id/installment-plan", purchases.CreatePlan)
	pg.Get("/:id/installment-plan", purchases.GetPlan)
	pg.Post("/:id/recompute", purchases.Recompute)

	inst := NewInstallmentHandler(deps.Installments, deps.Log)
	api.Post("/installment-plans/:id/installments/:number/payments", backOffice, idem, inst.Pay)
	api.Get("/installments/overdue", backOffice, inst.Overdue)

	loyaltyH := NewLoyaltyHandler(deps.Loyalty, deps.Log)
	api.Get("/customers/:id/loyalty", loyaltyH.Balance)
	api.Post("/customers/:id/loyalty/adjustments", RequireRole(RoleAdmin), loyaltyH.Adjust)
}
