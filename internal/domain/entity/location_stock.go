package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationStock stock de un producto en una ubicación concreta,
// clave (ProductID, WarehouseID, Zone). Se crea con la primera recepción
// en esa ubicación. Invariantes: Quantity >= 0 y Available() >= 0.
type LocationStock struct {
	ProductID     string
	WarehouseID   string
	Zone          string
	Quantity      decimal.Decimal
	Reserved      decimal.Decimal
	Bin           string // coordenada de estiba, opcional
	LastAuditedAt *time.Time
	UpdatedAt     time.Time
}

// Available cantidad disponible para venta o traslado (en mano menos reservado).
func (s *LocationStock) Available() decimal.Decimal {
	return s.Quantity.Sub(s.Reserved)
}
