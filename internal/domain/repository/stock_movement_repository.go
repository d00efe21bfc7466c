package repository

import "github.com/lechibang-1512/stockguard-api/internal/domain/entity"

// StockMovementRepository puerto del libro de movimientos (append-only).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByTransaction(transactionID string) ([]*entity.StockMovement, error)
}
