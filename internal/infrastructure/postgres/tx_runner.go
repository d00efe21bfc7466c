package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lechibang-1512/stockguard-api/internal/application/audit"
	"github.com/lechibang-1512/stockguard-api/internal/application/batch"
	"github.com/lechibang-1512/stockguard-api/internal/application/custody"
	"github.com/lechibang-1512/stockguard-api/internal/application/ledger"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// Ensure TxRunner implementa los runners de cada flujo.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ batch.TxRunner = (*TxRunner)(nil)
var _ audit.TxRunner = (*TxRunner)(nil)
var _ custody.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. El
// aislamiento entre operaciones concurrentes lo da el motor de la BD junto
// con los SELECT FOR UPDATE de los repositorios.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del libro mayor atados a la tx y
// hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	stockRepo repository.LocationStockRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewProductRepository(tx),
		NewLocationStockRepository(tx),
		NewBatchRepository(tx),
		NewStockMovementRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBatch inicia una transacción solo con el repo de lotes (consumo FIFO
// como operación independiente).
func (r *TxRunner) RunBatch(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBatchRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAudit inicia una transacción con los repos del flujo de auditoría
// (la resolución con ajuste también toca stock, producto y libro).
func (r *TxRunner) RunAudit(ctx context.Context, fn func(
	auditRepo repository.AuditRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.LocationStockRepository,
	movRepo repository.StockMovementRepository,
	logRepo repository.AuditLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewAuditRepository(tx),
		NewProductRepository(tx),
		NewLocationStockRepository(tx),
		NewStockMovementRepository(tx),
		NewAuditLogRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCustody inicia una transacción con los repos del flujo de custodia.
func (r *TxRunner) RunCustody(ctx context.Context, fn func(
	custodyRepo repository.CustodyRepository,
	productRepo repository.ProductRepository,
	logRepo repository.AuditLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewCustodyRepository(tx),
		NewProductRepository(tx),
		NewAuditLogRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
