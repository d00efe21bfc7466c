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

	"github.com/lechibang-1512/stockguard-api/internal/application/audit"
	"github.com/lechibang-1512/stockguard-api/internal/application/batch"
	"github.com/lechibang-1512/stockguard-api/internal/application/custody"
	"github.com/lechibang-1512/stockguard-api/internal/application/ledger"
	"github.com/lechibang-1512/stockguard-api/internal/infrastructure/postgres"
	httpRouter "github.com/lechibang-1512/stockguard-api/internal/interfaces/http"
	"github.com/lechibang-1512/stockguard-api/pkg/config"
	"github.com/lechibang-1512/stockguard-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos de lectura (pool); las mutaciones corren bajo el TxRunner.
	movementRepo := postgres.NewStockMovementRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	custodyRepo := postgres.NewCustodyRepository(pool)
	logRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	allocator := batch.NewAllocator()
	stockUC := ledger.NewStockUseCase(txRunner, allocator)
	consumeUC := batch.NewConsumeUseCase(txRunner, allocator)
	auditUC := audit.NewWorkflowUseCase(txRunner)
	custodyUC := custody.NewWorkflowUseCase(txRunner, custody.Config{
		ApprovalThreshold: cfg.Custody.ApprovalThreshold,
	})

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
		Title:    "StockGuard API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:      stockUC,
		ConsumeUC:    consumeUC,
		AuditUC:      auditUC,
		CustodyUC:    custodyUC,
		MovementRepo: movementRepo,
		AuditRepo:    auditRepo,
		CustodyRepo:  custodyRepo,
		LogRepo:      logRepo,
		JWTSecret:    cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
