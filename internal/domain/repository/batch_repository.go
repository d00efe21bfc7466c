package repository

import "github.com/lechibang-1512/stockguard-api/internal/domain/entity"

// BatchRepository puerto de persistencia para lotes.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// ListActiveForUpdate devuelve los lotes activos del alcance ordenados
	// por received_at asc (desempate por created_at asc) y bloquea las filas
	// para el consumo FIFO dentro de la transacción en curso.
	ListActiveForUpdate(productID, warehouseID, zone string) ([]*entity.Batch, error)
	Update(batch *entity.Batch) error
	ListByLocation(productID, warehouseID, zone string) ([]*entity.Batch, error)
}
