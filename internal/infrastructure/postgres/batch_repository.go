package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lechibang-1512/stockguard-api/internal/domain"
	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = "id, batch_number, product_id, warehouse_id, zone, qty_received, qty_remaining, qty_sold, received_at, expires_at, status, created_at"

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO batches (id, batch_number, product_id, warehouse_id, zone,
			qty_received, qty_remaining, qty_sold, received_at, expires_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.BatchNumber, batch.ProductID, batch.WarehouseID, batch.Zone,
		batch.QtyReceived, batch.QtyRemaining, batch.QtySold,
		batch.ReceivedAt, batch.ExpiresAt, string(batch.Status), batch.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrValidation
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	var status string
	err := row.Scan(&b.ID, &b.BatchNumber, &b.ProductID, &b.WarehouseID, &b.Zone,
		&b.QtyReceived, &b.QtyRemaining, &b.QtySold, &b.ReceivedAt, &b.ExpiresAt,
		&status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	b.Status = entity.BatchStatus(status)
	return &b, nil
}

// GetByID obtiene un lote por ID; (nil, nil) si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	return scanBatch(r.q.QueryRow(context.Background(), query, id))
}

// ListActiveForUpdate lotes activos del alcance en orden FIFO, filas bloqueadas.
func (r *BatchRepo) ListActiveForUpdate(productID, warehouseID, zone string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE product_id = $1 AND warehouse_id = $2 AND zone = $3 AND status = $4
		ORDER BY received_at ASC, created_at ASC
		FOR UPDATE`
	return r.list(query, productID, warehouseID, zone, string(entity.BatchActive))
}

// ListByLocation todos los lotes del alcance, más recientes primero.
func (r *BatchRepo) ListByLocation(productID, warehouseID, zone string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE product_id = $1 AND warehouse_id = $2 AND zone = $3
		ORDER BY received_at DESC, created_at DESC`
	return r.list(query, productID, warehouseID, zone)
}

func (r *BatchRepo) list(query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		var status string
		if err := rows.Scan(&b.ID, &b.BatchNumber, &b.ProductID, &b.WarehouseID, &b.Zone,
			&b.QtyReceived, &b.QtyRemaining, &b.QtySold, &b.ReceivedAt, &b.ExpiresAt,
			&status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.Status = entity.BatchStatus(status)
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Update guarda remanente, vendido y estado de un lote.
func (r *BatchRepo) Update(batch *entity.Batch) error {
	query := `
		UPDATE batches
		SET qty_remaining = $2, qty_sold = $3, status = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.QtyRemaining, batch.QtySold, string(batch.Status))
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
