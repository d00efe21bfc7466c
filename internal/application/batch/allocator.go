package batch

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lechibang-1512/stockguard-api/internal/domain"
	"github.com/lechibang-1512/stockguard-api/internal/domain/allocation"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// Allocation resultado aplicado sobre un lote: cuánto se tomó de cuál.
type Allocation struct {
	BatchID     string
	BatchNumber string
	Amount      decimal.Decimal
}

// TxRunner ejecuta fn dentro de una transacción con el repo de lotes atado a ella.
type TxRunner interface {
	RunBatch(ctx context.Context, fn func(batchRepo repository.BatchRepository) error) error
}

// Allocator consume lotes en orden FIFO (received_at asc, desempate por
// orden de creación) para un alcance (producto, bodega, zona). Si los
// remanentes no alcanzan la cantidad pedida, el faltante queda sin cubrir
// a nivel de lote: los lotes son trazabilidad suplementaria y el chequeo
// autoritativo de stock ya ocurrió en el libro mayor.
type Allocator struct{}

// NewAllocator construye el asignador.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// ConsumeInTx descuenta qty de los lotes activos del alcance usando el repo
// proporcionado (misma transacción del caller). Devuelve las asignaciones
// realmente aplicadas; un lote cuyo remanente llega a 0 pasa a depleted.
func (a *Allocator) ConsumeInTx(
	batchRepo repository.BatchRepository,
	productID, warehouseID, zone string,
	qty decimal.Decimal,
) ([]Allocation, error) {
	lots, err := batchRepo.ListActiveForUpdate(productID, warehouseID, zone)
	if err != nil {
		return nil, err
	}
	plan := allocation.PlanConsumption(lots, qty)
	applied := make([]Allocation, 0, len(plan))
	for _, p := range plan {
		p.Batch.Take(p.Amount)
		if err := batchRepo.Update(p.Batch); err != nil {
			return nil, err
		}
		applied = append(applied, Allocation{
			BatchID:     p.Batch.ID,
			BatchNumber: p.Batch.BatchNumber,
			Amount:      p.Amount,
		})
	}
	return applied, nil
}

// ConsumeUseCase expone el consumo de lotes como operación propia
// (transacción independiente) para la capa de rutas.
type ConsumeUseCase struct {
	txRunner  TxRunner
	allocator *Allocator
}

// NewConsumeUseCase construye el caso de uso.
func NewConsumeUseCase(txRunner TxRunner, allocator *Allocator) *ConsumeUseCase {
	return &ConsumeUseCase{txRunner: txRunner, allocator: allocator}
}

// Consume abre una transacción y aplica el consumo FIFO sobre el alcance dado.
func (uc *ConsumeUseCase) Consume(ctx context.Context, productID, warehouseID, zone string, qty decimal.Decimal) ([]Allocation, error) {
	if productID == "" || warehouseID == "" || zone == "" {
		return nil, domain.ErrValidation
	}
	if !qty.IsPositive() {
		return nil, domain.ErrValidation
	}
	var applied []Allocation
	err := uc.txRunner.RunBatch(ctx, func(batchRepo repository.BatchRepository) error {
		var err error
		applied, err = uc.allocator.ConsumeInTx(batchRepo, productID, warehouseID, zone, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}
