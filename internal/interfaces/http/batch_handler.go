package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lechibang-1512/stockguard-api/internal/application/batch"
	"github.com/lechibang-1512/stockguard-api/internal/application/dto"
)

// BatchHandler maneja el consumo FIFO de lotes como operación propia (protegido).
type BatchHandler struct {
	uc *batch.ConsumeUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *batch.ConsumeUseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Consume godoc
// @Summary      Consumir lotes en orden FIFO
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeBatchesRequest  true  "alcance completo (producto, bodega, zona) y cantidad"
// @Success      200   {array}   dto.AllocationDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/batches/consume [post]
func (h *BatchHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeBatchesRequest
	if !parseBody(c, &in) {
		return nil
	}
	applied, err := h.uc.Consume(c.Context(), in.ProductID, in.WarehouseID, in.Zone, in.Quantity)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.AllocationDTO, 0, len(applied))
	for _, a := range applied {
		out = append(out, dto.AllocationDTO{
			BatchID:     a.BatchID,
			BatchNumber: a.BatchNumber,
			Amount:      a.Amount,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "allocations": out})
}
