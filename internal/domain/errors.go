package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("entrada inválida")
	ErrInvalidState      = errors.New("operación no permitida en el estado actual")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrLocationMismatch  = errors.New("ubicación inconsistente")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError indica que la cantidad solicitada supera la disponible.
// Transporta la cantidad disponible para que el caller pueda informarla;
// errors.Is(err, ErrInsufficientStock) sigue funcionando.
type InsufficientStockError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: solicitado %s, disponible %s",
		e.Requested.String(), e.Available.String())
}

// Is permite comparar contra el centinela ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
