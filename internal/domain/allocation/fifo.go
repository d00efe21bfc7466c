package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
)

// Allocation cuánto se tomó de un lote concreto.
type Allocation struct {
	Batch  *entity.Batch
	Amount decimal.Decimal
}

// PlanConsumption reparte requested entre los lotes en el orden recibido
// (el caller los entrega ya ordenados por received_at asc, desempate por
// orden de creación) y devuelve cuánto tomar de cada uno.
//
// Si los remanentes no alcanzan, el faltante queda sin cubrir a nivel de
// lote deliberadamente: los lotes son una capa de trazabilidad suplementaria
// y la verificación autoritativa de stock ocurre antes, en el libro mayor.
func PlanConsumption(batches []*entity.Batch, requested decimal.Decimal) []Allocation {
	var plan []Allocation
	remaining := requested
	for _, b := range batches {
		if !remaining.IsPositive() {
			break
		}
		if b.Status != entity.BatchActive || !b.QtyRemaining.IsPositive() {
			continue
		}
		take := decimal.Min(b.QtyRemaining, remaining)
		plan = append(plan, Allocation{Batch: b, Amount: take})
		remaining = remaining.Sub(take)
	}
	return plan
}
