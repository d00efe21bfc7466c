// seeddemo puebla la base con un juego de datos de demostración: dos
// productos (uno de alto valor), stock recibido con lote en dos ubicaciones
// y un ítem bajo custodia. Imprime tokens JWT por rol para probar la API.
//
// Uso: go run ./cmd/seeddemo
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lechibang-1512/stockguard-api/internal/application/batch"
	"github.com/lechibang-1512/stockguard-api/internal/application/custody"
	"github.com/lechibang-1512/stockguard-api/internal/application/ledger"
	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/infrastructure/postgres"
	"github.com/lechibang-1512/stockguard-api/pkg/config"
	"github.com/lechibang-1512/stockguard-api/pkg/jwt"
	"github.com/lechibang-1512/stockguard-api/pkg/logger"
)

const (
	adminID     = "00000000-0000-0000-0000-00000000000a"
	warehouseID = "00000000-0000-0000-0000-00000000000b"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Service: cfg.App.Name, Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	allocator := batch.NewAllocator()
	stockUC := ledger.NewStockUseCase(txRunner, allocator)
	custodyUC := custody.NewWorkflowUseCase(txRunner, custody.Config{
		ApprovalThreshold: cfg.Custody.ApprovalThreshold,
	})

	admin := entity.Actor{ID: adminID, Role: entity.RoleAdmin}
	now := time.Now()

	widget := &entity.Product{
		SKU:       "DEMO-WIDGET",
		Name:      "Widget de demostración",
		Quantity:  decimal.Zero,
		Price:     decimal.NewFromInt(120),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := productRepo.Create(widget); err != nil {
		log.Fatal().Err(err).Msg("crear producto widget")
	}
	scanner := &entity.Product{
		SKU:       "DEMO-SCANNER",
		Name:      "Escáner industrial (alto valor)",
		Quantity:  decimal.Zero,
		Price:     decimal.NewFromInt(60000),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := productRepo.Create(scanner); err != nil {
		log.Fatal().Err(err).Msg("crear producto escáner")
	}

	// Stock con lote en bodega central y un remanente en la bodega norte.
	if _, err := stockUC.ReceiveStock(ctx, admin, ledger.ReceiveInput{
		ProductID:   widget.ID,
		WarehouseID: "central",
		Zone:        "A",
		Quantity:    decimal.NewFromInt(100),
		Bin:         "A-01-01",
		Batch:       &ledger.BatchInfo{BatchNumber: "LOTE-001"},
	}); err != nil {
		log.Fatal().Err(err).Msg("recibir stock en central")
	}
	if _, err := stockUC.ReceiveStock(ctx, admin, ledger.ReceiveInput{
		ProductID:   widget.ID,
		WarehouseID: "norte",
		Zone:        "A",
		Quantity:    decimal.NewFromInt(40),
	}); err != nil {
		log.Fatal().Err(err).Msg("recibir stock en norte")
	}
	if _, err := stockUC.ReceiveStock(ctx, admin, ledger.ReceiveInput{
		ProductID: scanner.ID,
		Quantity:  decimal.NewFromInt(3),
	}); err != nil {
		log.Fatal().Err(err).Msg("recibir escáneres")
	}

	item, err := custodyUC.RegisterItem(ctx, admin, custody.RegisterInput{
		ProductID:    scanner.ID,
		SerialNumber: "SCN-2026-0001",
		Custodian:    warehouseID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("registrar ítem bajo custodia")
	}

	log.Info().
		Str("widget_id", widget.ID).
		Str("scanner_id", scanner.ID).
		Str("custody_item_id", item.ID).
		Msg("datos de demostración creados")

	// Tokens de prueba por rol.
	for _, pair := range []struct{ userID, role string }{
		{adminID, "admin"},
		{warehouseID, "warehouse"},
		{"00000000-0000-0000-0000-00000000000c", "sales"},
	} {
		tok, err := jwt.Generate(cfg.JWT.Secret, pair.userID, pair.role, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			log.Fatal().Err(err).Str("role", pair.role).Msg("generar token")
		}
		fmt.Printf("%s: Bearer %s\n", pair.role, tok)
	}
}
