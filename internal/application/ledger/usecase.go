package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lechibang-1512/stockguard-api/internal/application/batch"
	"github.com/lechibang-1512/stockguard-api/internal/domain"
	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// StockUseCase aplica las mutaciones del libro mayor (recepción, venta y
// traslado) de forma transaccional, con bloqueo de fila (SELECT FOR UPDATE)
// y Commit/Rollback. Mantiene el invariante: el agregado del producto es el
// total autoritativo e iguala la suma del stock por ubicación.
type StockUseCase struct {
	txRunner  TxRunner
	allocator *batch.Allocator
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, allocator *batch.Allocator) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, allocator: allocator}
}

// BatchInfo datos opcionales de lote al recibir mercancía.
type BatchInfo struct {
	BatchNumber string
	ReceivedAt  *time.Time // nil = ahora
	ExpiresAt   *time.Time
}

// ReceiveInput entrada de ReceiveStock. WarehouseID y Zone son opcionales
// (modo solo-agregado); Batch exige ubicación completa.
type ReceiveInput struct {
	ProductID   string
	WarehouseID string
	Zone        string
	Quantity    decimal.Decimal
	Bin         string
	Batch       *BatchInfo
}

// ReceiveResult cantidades resultantes tras la recepción.
type ReceiveResult struct {
	ProductQuantity  decimal.Decimal
	LocationQuantity *decimal.Decimal
	BatchID          string
}

// ReceiveStock suma quantity al agregado del producto; con ubicación hace
// upsert del LocationStock y, con datos de lote, crea el Batch con
// remanente = recibido = quantity. Todo dentro de una sola transacción.
func (uc *StockUseCase) ReceiveStock(ctx context.Context, actor entity.Actor, input ReceiveInput) (*ReceiveResult, error) {
	if input.ProductID == "" || !input.Quantity.IsPositive() {
		return nil, domain.ErrValidation
	}
	if input.Zone != "" && input.WarehouseID == "" {
		return nil, domain.ErrLocationMismatch
	}
	if input.Batch != nil && (input.WarehouseID == "" || input.Zone == "") {
		// Los lotes tienen alcance (producto, bodega, zona): sin ubicación
		// completa no hay dónde colgar el lote.
		return nil, domain.ErrLocationMismatch
	}

	now := time.Now()
	txID := uuid.New().String()
	var result ReceiveResult

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.LocationStockRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		product.Quantity = product.Quantity.Add(input.Quantity)
		product.UpdatedAt = now
		if err := productRepo.Update(product); err != nil {
			return err
		}
		result.ProductQuantity = product.Quantity

		if input.WarehouseID != "" {
			stock, err := stockRepo.GetForUpdate(input.ProductID, input.WarehouseID, input.Zone)
			if err != nil {
				return err
			}
			stock.Quantity = stock.Quantity.Add(input.Quantity)
			if input.Bin != "" {
				stock.Bin = input.Bin
			}
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
			locQty := stock.Quantity
			result.LocationQuantity = &locQty
		}

		if input.Batch != nil {
			receivedAt := now
			if input.Batch.ReceivedAt != nil {
				receivedAt = *input.Batch.ReceivedAt
			}
			lote := &entity.Batch{
				BatchNumber:  input.Batch.BatchNumber,
				ProductID:    input.ProductID,
				WarehouseID:  input.WarehouseID,
				Zone:         input.Zone,
				QtyReceived:  input.Quantity,
				QtyRemaining: input.Quantity,
				QtySold:      decimal.Zero,
				ReceivedAt:   receivedAt,
				ExpiresAt:    input.Batch.ExpiresAt,
				Status:       entity.BatchActive,
				CreatedAt:    now,
			}
			if err := batchRepo.Create(lote); err != nil {
				return err
			}
			result.BatchID = lote.ID
		}

		return movRepo.Create(&entity.StockMovement{
			TransactionID: txID,
			ProductID:     input.ProductID,
			WarehouseID:   input.WarehouseID,
			Zone:          input.Zone,
			Type:          entity.MovementReceive,
			Quantity:      input.Quantity,
			CreatedAt:     now,
			CreatedBy:     actor.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SellInput entrada de SellStock. Con ubicación el chequeo y descuento son
// por ubicación y se consumen lotes; sin ella, solo sobre el agregado.
type SellInput struct {
	ProductID   string
	WarehouseID string
	Zone        string
	Quantity    decimal.Decimal
}

// SellResult cantidades resultantes y lotes consumidos.
type SellResult struct {
	ProductQuantity  decimal.Decimal
	LocationQuantity *decimal.Decimal
	Allocations      []batch.Allocation
}

// SellStock verifica disponibilidad y descuenta bajo la misma transacción
// que hace el chequeo: dos ventas concurrentes sobre la misma fila no pueden
// pasar ambas la verificación y descontar ambas. Si la cantidad supera la
// disponible devuelve *InsufficientStockError con el disponible, sin
// aplicar nada.
func (uc *StockUseCase) SellStock(ctx context.Context, actor entity.Actor, input SellInput) (*SellResult, error) {
	if input.ProductID == "" || !input.Quantity.IsPositive() {
		return nil, domain.ErrValidation
	}
	if input.Zone != "" && input.WarehouseID == "" {
		return nil, domain.ErrLocationMismatch
	}

	now := time.Now()
	txID := uuid.New().String()
	var result SellResult

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.LocationStockRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		if input.WarehouseID != "" {
			stock, err := stockRepo.GetForUpdate(input.ProductID, input.WarehouseID, input.Zone)
			if err != nil {
				return err
			}
			available := stock.Available()
			if input.Quantity.GreaterThan(available) {
				return &domain.InsufficientStockError{Requested: input.Quantity, Available: available}
			}
			stock.Quantity = stock.Quantity.Sub(input.Quantity)
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
			locQty := stock.Quantity
			result.LocationQuantity = &locQty

			// Consumo FIFO de lotes en la misma transacción. Un faltante a
			// nivel de lote se deja sin cubrir: el chequeo autoritativo ya pasó.
			result.Allocations, err = uc.allocator.ConsumeInTx(
				batchRepo, input.ProductID, input.WarehouseID, input.Zone, input.Quantity)
			if err != nil {
				return err
			}
		} else {
			if input.Quantity.GreaterThan(product.Quantity) {
				return &domain.InsufficientStockError{Requested: input.Quantity, Available: product.Quantity}
			}
		}

		product.Quantity = product.Quantity.Sub(input.Quantity)
		product.UpdatedAt = now
		if err := productRepo.Update(product); err != nil {
			return err
		}
		result.ProductQuantity = product.Quantity

		return movRepo.Create(&entity.StockMovement{
			TransactionID: txID,
			ProductID:     input.ProductID,
			WarehouseID:   input.WarehouseID,
			Zone:          input.Zone,
			Type:          entity.MovementSale,
			Quantity:      input.Quantity.Neg(),
			CreatedAt:     now,
			CreatedBy:     actor.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// TransferInput entrada de TransferStock. Origen y destino completos.
type TransferInput struct {
	ProductID     string
	FromWarehouse string
	FromZone      string
	ToWarehouse   string
	ToZone        string
	Quantity      decimal.Decimal
}

// TransferResult cantidades resultantes en origen y destino.
type TransferResult struct {
	FromQuantity decimal.Decimal
	ToQuantity   decimal.Decimal
}

// TransferStock mueve quantity del origen al destino en una sola
// transacción. El agregado del producto no cambia: el total es invariante
// ante traslados entre ubicaciones. Aunque no muta el agregado, toma el
// bloqueo de la fila del producto igual que recepción y venta: FOR UPDATE
// sobre una fila de destino que aún no existe no bloquea nada, así que toda
// mutación del libro serializa sobre el producto.
func (uc *StockUseCase) TransferStock(ctx context.Context, actor entity.Actor, input TransferInput) (*TransferResult, error) {
	if input.ProductID == "" || !input.Quantity.IsPositive() {
		return nil, domain.ErrValidation
	}
	if input.FromWarehouse == "" || input.ToWarehouse == "" {
		return nil, domain.ErrLocationMismatch
	}
	if input.FromWarehouse == input.ToWarehouse && input.FromZone == input.ToZone {
		return nil, domain.ErrValidation
	}

	now := time.Now()
	txID := uuid.New().String()
	var result TransferResult

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.LocationStockRepository,
		_ repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		origin, err := stockRepo.GetForUpdate(input.ProductID, input.FromWarehouse, input.FromZone)
		if err != nil {
			return err
		}
		available := origin.Available()
		if input.Quantity.GreaterThan(available) {
			return &domain.InsufficientStockError{Requested: input.Quantity, Available: available}
		}
		dest, err := stockRepo.GetForUpdate(input.ProductID, input.ToWarehouse, input.ToZone)
		if err != nil {
			return err
		}

		origin.Quantity = origin.Quantity.Sub(input.Quantity)
		dest.Quantity = dest.Quantity.Add(input.Quantity)
		origin.UpdatedAt = now
		dest.UpdatedAt = now
		if err := stockRepo.Upsert(origin); err != nil {
			return err
		}
		if err := stockRepo.Upsert(dest); err != nil {
			return err
		}
		result.FromQuantity = origin.Quantity
		result.ToQuantity = dest.Quantity

		// Dos filas del libro con el mismo TransactionID: salida y entrada.
		out := &entity.StockMovement{
			TransactionID: txID,
			ProductID:     input.ProductID,
			WarehouseID:   input.FromWarehouse,
			Zone:          input.FromZone,
			Type:          entity.MovementTransfer,
			Quantity:      input.Quantity.Neg(),
			CreatedAt:     now,
			CreatedBy:     actor.ID,
		}
		if err := movRepo.Create(out); err != nil {
			return err
		}
		in := &entity.StockMovement{
			TransactionID: txID,
			ProductID:     input.ProductID,
			WarehouseID:   input.ToWarehouse,
			Zone:          input.ToZone,
			Type:          entity.MovementTransfer,
			Quantity:      input.Quantity,
			CreatedAt:     now,
			CreatedBy:     actor.ID,
		}
		return movRepo.Create(in)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
