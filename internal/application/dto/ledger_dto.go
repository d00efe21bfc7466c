package dto

import "github.com/shopspring/decimal"

// BatchInfoRequest datos opcionales de lote al recibir mercancía.
// ReceivedAt/ExpiresAt en RFC 3339; vacío = ahora / sin vencimiento.
type BatchInfoRequest struct {
	BatchNumber string `json:"batch_number" validate:"required"`
	ReceivedAt  string `json:"received_at,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// ReceiveStockRequest body para POST /api/stock/receive.
// warehouse_id y zone son opcionales (modo solo-agregado); batch exige ambos.
type ReceiveStockRequest struct {
	ProductID   string            `json:"product_id" validate:"required"`
	WarehouseID string            `json:"warehouse_id,omitempty"`
	Zone        string            `json:"zone,omitempty"`
	Quantity    decimal.Decimal   `json:"quantity" validate:"required"`
	Bin         string            `json:"bin,omitempty"`
	Batch       *BatchInfoRequest `json:"batch,omitempty"`
}

// ReceiveStockResponse cantidades resultantes tras la recepción.
type ReceiveStockResponse struct {
	ProductQuantity  decimal.Decimal  `json:"product_quantity"`
	LocationQuantity *decimal.Decimal `json:"location_quantity,omitempty"`
	BatchID          string           `json:"batch_id,omitempty"`
}

// SellStockRequest body para POST /api/stock/sell.
type SellStockRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id,omitempty"`
	Zone        string          `json:"zone,omitempty"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
}

// SellStockResponse cantidades resultantes y lotes consumidos.
type SellStockResponse struct {
	ProductQuantity  decimal.Decimal  `json:"product_quantity"`
	LocationQuantity *decimal.Decimal `json:"location_quantity,omitempty"`
	Allocations      []AllocationDTO  `json:"allocations,omitempty"`
}

// TransferStockRequest body para POST /api/stock/transfer.
type TransferStockRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	FromWarehouse string          `json:"from_warehouse" validate:"required"`
	FromZone      string          `json:"from_zone,omitempty"`
	ToWarehouse   string          `json:"to_warehouse" validate:"required"`
	ToZone        string          `json:"to_zone,omitempty"`
	Quantity      decimal.Decimal `json:"quantity" validate:"required"`
}

// TransferStockResponse cantidades resultantes en origen y destino.
type TransferStockResponse struct {
	FromQuantity decimal.Decimal `json:"from_quantity"`
	ToQuantity   decimal.Decimal `json:"to_quantity"`
}

// ConsumeBatchesRequest body para POST /api/batches/consume.
type ConsumeBatchesRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Zone        string          `json:"zone" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
}

// AllocationDTO cuánto se tomó de cuál lote.
type AllocationDTO struct {
	BatchID     string          `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Amount      decimal.Decimal `json:"amount"`
}

// StockMovementDTO fila del libro de movimientos en respuestas.
type StockMovementDTO struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id,omitempty"`
	Zone          string          `json:"zone,omitempty"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reference     string          `json:"reference,omitempty"`
	CreatedAt     string          `json:"created_at"`
	CreatedBy     string          `json:"created_by"`
}
