package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchStatus estado de un lote. Cerrado: active o depleted.
type BatchStatus string

const (
	BatchActive   BatchStatus = "active"
	BatchDepleted BatchStatus = "depleted"
)

// Valid indica si el estado es uno de los definidos.
func (s BatchStatus) Valid() bool {
	return s == BatchActive || s == BatchDepleted
}

// Batch lote recibido de un producto, con alcance (producto, bodega, zona).
// Invariante: 0 <= QtyRemaining <= QtyReceived. El estado pasa a depleted
// exactamente cuando QtyRemaining llega a 0 y nunca vuelve a active.
// Los lotes son una vista de trazabilidad sobre el mismo stock: la suma de
// remanentes activos de una ubicación no debería exceder su LocationStock.
type Batch struct {
	ID           string
	BatchNumber  string
	ProductID    string
	WarehouseID  string
	Zone         string
	QtyReceived  decimal.Decimal
	QtyRemaining decimal.Decimal
	QtySold      decimal.Decimal
	ReceivedAt   time.Time
	ExpiresAt    *time.Time
	Status       BatchStatus
	CreatedAt    time.Time
}

// Take descuenta amount del remanente, acumula en QtySold y agota el lote
// cuando el remanente llega a cero. El caller garantiza amount <= QtyRemaining.
func (b *Batch) Take(amount decimal.Decimal) {
	b.QtyRemaining = b.QtyRemaining.Sub(amount)
	b.QtySold = b.QtySold.Add(amount)
	if b.QtyRemaining.IsZero() {
		b.Status = BatchDepleted
	}
}
