package ledger

import (
	"context"

	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro mayor:
// o se confirman todas las escrituras de una operación o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		stockRepo repository.LocationStockRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
