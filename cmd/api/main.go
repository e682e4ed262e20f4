package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Farmacia-api/internal/application/checkout"
	"github.com/jhoicas/Farmacia-api/internal/application/credit"
	"github.com/jhoicas/Farmacia-api/internal/application/installment"
	"github.com/jhoicas/Farmacia-api/internal/application/loyalty"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain/pricing"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Farmacia-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var (
		txRunner ports.TxRunner
		repos    ports.Repos
	)
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.New()
		txRunner = store
		repos = store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		txRunner = postgres.NewTxRunner(pool)
		repos = postgres.NewRepos(pool)
	}

	// Llaves de idempotencia: Redis si está configurado, si no en proceso
	var idem ports.IdempotencyStore
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		idem = infraredis.NewIdempotencyStore(rdb)
	} else {
		idem = memory.NewIdempotencyStore(time.Now)
	}

	engine := pricing.NewEngine(
		pricing.NewDiscountPolicy(cfg.Pricing.MaxDiscountPercent),
		pricing.NewLoyaltyProgram(cfg.Pricing.LoyaltyPointsPerThousand),
	)

	checkoutUC := checkout.NewUseCase(txRunner, repos.Customers, engine, time.Now, log.Component("checkout"))
	saleLedger := credit.NewSaleLedgerUseCase(
		txRunner, repos.Sales,
		credit.LogNotifier{Log: log.Component("notifier")},
		time.Now, log.Component("sale_ledger"),
	)
	purchaseLedger := credit.NewPurchaseLedgerUseCase(txRunner, repos.Purchases, time.Now, log.Component("purchase_ledger"))
	installmentUC := installment.NewUseCase(txRunner, repos.Plans, repos.Purchases, time.Now, log.Component("installment"))
	loyaltyLedger := loyalty.NewLedger(repos.Customers, log.Component("loyalty"))

	sweeper := installment.NewSweeper(installmentUC, cfg.Sweeper.Interval, log.Component("sweeper"))
	go sweeper.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Checkout:       checkoutUC,
		SaleLedger:     saleLedger,
		PurchaseLedger: purchaseLedger,
		Installments:   installmentUC,
		Loyalty:        loyaltyLedger,
		Idempotency:    idem,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		JWTSecret:      cfg.JWT.Secret,
		Log:            log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
