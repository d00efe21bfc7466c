package repository

import (
	"time"

	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
)

// LocationStockRepository puerto para el stock por (producto, bodega, zona).
// Get y GetForUpdate devuelven un registro en cero si la fila no existe aún;
// Upsert la crea en la primera recepción.
type LocationStockRepository interface {
	Get(productID, warehouseID, zone string) (*entity.LocationStock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para que chequeo de
	// disponibilidad y descuento ocurran bajo la misma transacción.
	GetForUpdate(productID, warehouseID, zone string) (*entity.LocationStock, error)
	Upsert(stock *entity.LocationStock) error
	ListByScope(warehouseID, zone string) ([]*entity.LocationStock, error)
	// StampAudited marca la última auditoría aprobada sobre la ubicación.
	StampAudited(productID, warehouseID, zone string, at time.Time) error
}
