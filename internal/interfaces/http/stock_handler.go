package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lechibang-1512/stockguard-api/internal/application/dto"
	"github.com/lechibang-1512/stockguard-api/internal/application/ledger"
	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// StockHandler maneja las mutaciones del libro mayor y la consulta de
// movimientos (protegido).
type StockHandler struct {
	uc      *ledger.StockUseCase
	movRepo repository.StockMovementRepository
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.StockUseCase, movRepo repository.StockMovementRepository) *StockHandler {
	return &StockHandler{uc: uc, movRepo: movRepo}
}

// Receive godoc
// @Summary      Recibir mercancía
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "product_id, quantity; warehouse_id/zone opcionales; batch exige ubicación completa"
// @Success      201   {object}  dto.ReceiveStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/receive [post]
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	input := ledger.ReceiveInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Zone:        in.Zone,
		Quantity:    in.Quantity,
		Bin:         in.Bin,
	}
	if in.Batch != nil {
		info := &ledger.BatchInfo{BatchNumber: in.Batch.BatchNumber}
		if in.Batch.ReceivedAt != "" {
			t, err := time.Parse(time.RFC3339, in.Batch.ReceivedAt)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "received_at debe ser RFC 3339"})
			}
			info.ReceivedAt = &t
		}
		if in.Batch.ExpiresAt != "" {
			t, err := time.Parse(time.RFC3339, in.Batch.ExpiresAt)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expires_at debe ser RFC 3339"})
			}
			info.ExpiresAt = &t
		}
		input.Batch = info
	}
	result, err := h.uc.ReceiveStock(c.Context(), GetActor(c), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiveStockResponse{
		ProductQuantity:  result.ProductQuantity,
		LocationQuantity: result.LocationQuantity,
		BatchID:          result.BatchID,
	})
}

// Sell godoc
// @Summary      Vender stock (chequeo y descuento atómicos)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SellStockRequest  true  "product_id, quantity; warehouse_id/zone para venta por ubicación"
// @Success      200   {object}  dto.SellStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/sell [post]
func (h *StockHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	result, err := h.uc.SellStock(c.Context(), GetActor(c), ledger.SellInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Zone:        in.Zone,
		Quantity:    in.Quantity,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	out := dto.SellStockResponse{
		ProductQuantity:  result.ProductQuantity,
		LocationQuantity: result.LocationQuantity,
	}
	for _, a := range result.Allocations {
		out.Allocations = append(out.Allocations, dto.AllocationDTO{
			BatchID:     a.BatchID,
			BatchNumber: a.BatchNumber,
			Amount:      a.Amount,
		})
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, origen, destino, quantity"
// @Success      200   {object}  dto.TransferStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	result, err := h.uc.TransferStock(c.Context(), GetActor(c), ledger.TransferInput{
		ProductID:     in.ProductID,
		FromWarehouse: in.FromWarehouse,
		FromZone:      in.FromZone,
		ToWarehouse:   in.ToWarehouse,
		ToZone:        in.ToZone,
		Quantity:      in.Quantity,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.TransferStockResponse{
		FromQuantity: result.FromQuantity,
		ToQuantity:   result.ToQuantity,
	})
}

// ListMovements godoc
// @Summary      Movimientos de un producto (libro, más recientes primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "UUID del producto"
// @Success      200  {array}   dto.StockMovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	movements, err := h.movRepo.ListByProduct(productID, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.StockMovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, toStockMovementDTO(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

func toStockMovementDTO(m *entity.StockMovement) dto.StockMovementDTO {
	return dto.StockMovementDTO{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Zone:          m.Zone,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		Reference:     m.Reference,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		CreatedBy:     m.CreatedBy,
	}
}
