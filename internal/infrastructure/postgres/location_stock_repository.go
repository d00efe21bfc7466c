package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

var _ repository.LocationStockRepository = (*LocationStockRepo)(nil)

const locationStockColumns = "product_id, warehouse_id, zone, quantity, reserved, bin, last_audited_at, updated_at"

// LocationStockRepo implementación sobre PostgreSQL (usable con pool o tx).
type LocationStockRepo struct {
	q Querier
}

// NewLocationStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationStockRepository(q Querier) *LocationStockRepo {
	return &LocationStockRepo{q: q}
}

func emptyStock(productID, warehouseID, zone string) *entity.LocationStock {
	return &entity.LocationStock{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Zone:        zone,
		Quantity:    decimal.Zero,
		Reserved:    decimal.Zero,
	}
}

func (r *LocationStockRepo) scanOne(row pgx.Row, productID, warehouseID, zone string) (*entity.LocationStock, error) {
	var s entity.LocationStock
	var bin *string
	err := row.Scan(&s.ProductID, &s.WarehouseID, &s.Zone, &s.Quantity, &s.Reserved,
		&bin, &s.LastAuditedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Sin fila aún: registro en cero, Upsert la crea en la primera recepción.
			return emptyStock(productID, warehouseID, zone), nil
		}
		return nil, fmt.Errorf("scan location stock: %w", err)
	}
	if bin != nil {
		s.Bin = *bin
	}
	return &s, nil
}

// Get obtiene el stock de un producto en una ubicación; en cero si no hay fila.
func (r *LocationStockRepo) Get(productID, warehouseID, zone string) (*entity.LocationStock, error) {
	query := `
		SELECT ` + locationStockColumns + `
		FROM location_stock WHERE product_id = $1 AND warehouse_id = $2 AND zone = $3`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID, warehouseID, zone),
		productID, warehouseID, zone)
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
func (r *LocationStockRepo) GetForUpdate(productID, warehouseID, zone string) (*entity.LocationStock, error) {
	query := `
		SELECT ` + locationStockColumns + `
		FROM location_stock WHERE product_id = $1 AND warehouse_id = $2 AND zone = $3
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID, warehouseID, zone),
		productID, warehouseID, zone)
}

// Upsert inserta o actualiza la fila por (producto, bodega, zona).
func (r *LocationStockRepo) Upsert(stock *entity.LocationStock) error {
	var bin *string
	if stock.Bin != "" {
		bin = &stock.Bin
	}
	query := `
		INSERT INTO location_stock (product_id, warehouse_id, zone, quantity, reserved, bin, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (product_id, warehouse_id, zone)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved = EXCLUDED.reserved,
		              bin = COALESCE(EXCLUDED.bin, location_stock.bin), updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.ProductID, stock.WarehouseID, stock.Zone, stock.Quantity, stock.Reserved, bin)
	if err != nil {
		return fmt.Errorf("upsert location stock: %w", err)
	}
	return nil
}

// ListByScope lista el stock de una bodega, opcionalmente filtrado por zona.
func (r *LocationStockRepo) ListByScope(warehouseID, zone string) ([]*entity.LocationStock, error) {
	query := `
		SELECT ` + locationStockColumns + `
		FROM location_stock WHERE warehouse_id = $1`
	args := []any{warehouseID}
	if zone != "" {
		query += " AND zone = $2"
		args = append(args, zone)
	}
	query += " ORDER BY product_id, zone"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock by scope: %w", err)
	}
	defer rows.Close()
	var list []*entity.LocationStock
	for rows.Next() {
		var s entity.LocationStock
		var bin *string
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.Zone, &s.Quantity, &s.Reserved,
			&bin, &s.LastAuditedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location stock: %w", err)
		}
		if bin != nil {
			s.Bin = *bin
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// StampAudited marca la hora de la última auditoría aprobada sobre la ubicación.
func (r *LocationStockRepo) StampAudited(productID, warehouseID, zone string, at time.Time) error {
	query := `
		UPDATE location_stock SET last_audited_at = $4
		WHERE product_id = $1 AND warehouse_id = $2 AND zone = $3`
	_, err := r.q.Exec(context.Background(), query, productID, warehouseID, zone, at)
	if err != nil {
		return fmt.Errorf("stamp audited: %w", err)
	}
	return nil
}
