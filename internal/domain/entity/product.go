package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario. Quantity es el total
// agregado autoritativo: debe igualar la suma de LocationStock.Quantity
// cuando el producto usa seguimiento por ubicación (se toleran productos
// sin filas de ubicación, modo solo-agregado).
type Product struct {
	ID        string
	SKU       string
	Name      string
	Quantity  decimal.Decimal // total en mano, todas las ubicaciones
	Price     decimal.Decimal // precio unitario de venta
	CreatedAt time.Time
	UpdatedAt time.Time
}
