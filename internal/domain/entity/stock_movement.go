package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del libro de inventario.
type MovementType string

const (
	MovementReceive    MovementType = "RECEIVE"
	MovementSale       MovementType = "SALE"
	MovementTransfer   MovementType = "TRANSFER"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// Valid indica si el tipo es uno de los definidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementReceive, MovementSale, MovementTransfer, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement fila append-only del libro de movimientos. TransactionID
// agrupa las filas producidas por una misma operación (un traslado genera
// dos filas con el mismo TransactionID). Quantity es con signo: positivo
// entra, negativo sale.
type StockMovement struct {
	ID            string
	TransactionID string
	ProductID     string
	WarehouseID   string
	Zone          string
	Type          MovementType
	Quantity      decimal.Decimal
	Reference     string // nota de ajuste, id de auditoría, etc.
	CreatedAt     time.Time
	CreatedBy     string
}
