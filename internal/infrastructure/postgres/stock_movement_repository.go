package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = "id, transaction_id, product_id, warehouse_id, zone, type, quantity, reference, created_at, created_by"

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL.
// Solo inserta y lee: el libro es append-only.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, transaction_id, product_id, warehouse_id, zone, type, quantity, reference, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.TransactionID, movement.ProductID, movement.WarehouseID,
		movement.Zone, string(movement.Type), movement.Quantity, movement.Reference,
		movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByProduct movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, productID, limit, offset)
}

// ListByTransaction las filas que produjo una misma operación.
func (r *StockMovementRepo) ListByTransaction(transactionID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE transaction_id = $1
		ORDER BY created_at ASC`
	return r.list(query, transactionID)
}

func (r *StockMovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var movType string
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ProductID, &m.WarehouseID, &m.Zone,
			&movType, &m.Quantity, &m.Reference, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Type = entity.MovementType(movType)
		list = append(list, &m)
	}
	return list, rows.Err()
}
