package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lechibang-1512/stockguard-api/internal/application/audit"
	"github.com/lechibang-1512/stockguard-api/internal/application/dto"
	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// AuditHandler maneja el flujo de auditoría física (protegido).
type AuditHandler struct {
	uc        *audit.WorkflowUseCase
	auditRepo repository.AuditRepository
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.WorkflowUseCase, auditRepo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{uc: uc, auditRepo: auditRepo}
}

// Create godoc
// @Summary      Abrir una auditoría física
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAuditRequest  true  "warehouse_id; zone opcional; type (default cycle_count)"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/audits [post]
func (h *AuditHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAuditRequest
	if !parseBody(c, &in) {
		return nil
	}
	result, err := h.uc.CreateAudit(c.Context(), GetActor(c), audit.CreateInput{
		WarehouseID: in.WarehouseID,
		Zone:        in.Zone,
		Type:        in.Type,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.WorksheetItemDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, toWorksheetItemDTO(item))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session": toAuditSessionDTO(result.Session),
		"items":   items,
	})
}

// RecordCount godoc
// @Summary      Registrar el conteo físico de un ítem de la hoja
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "UUID de la auditoría"
// @Param        body  body  dto.RecordCountRequest  true  "item_id y cantidad contada"
// @Success      200   {object}  dto.WorksheetItemDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/counts [post]
func (h *AuditHandler) RecordCount(c *fiber.Ctx) error {
	auditID := c.Params("id")
	var in dto.RecordCountRequest
	if !parseBody(c, &in) {
		return nil
	}
	item, err := h.uc.RecordCount(c.Context(), GetActor(c), auditID, in.ItemID, in.CountedQty)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toWorksheetItemDTO(item))
}

// Complete godoc
// @Summary      Cerrar la auditoría (in_progress -> pending_approval)
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la auditoría"
// @Success      200  {object}  dto.AuditSessionDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/complete [post]
func (h *AuditHandler) Complete(c *fiber.Ctx) error {
	session, err := h.uc.CompleteAudit(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toAuditSessionDTO(session))
}

// Approve godoc
// @Summary      Aprobar la auditoría (pending_approval -> completed, solo admin)
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la auditoría"
// @Success      200  {object}  dto.AuditSessionDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/approve [post]
func (h *AuditHandler) Approve(c *fiber.Ctx) error {
	session, err := h.uc.ApproveAudit(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toAuditSessionDTO(session))
}

// ListDiscrepancies godoc
// @Summary      Discrepancias de una auditoría
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la auditoría"
// @Success      200  {array}  dto.DiscrepancyDTO
// @Router       /api/audits/{id}/discrepancies [get]
func (h *AuditHandler) ListDiscrepancies(c *fiber.Ctx) error {
	list, err := h.auditRepo.ListDiscrepancies(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.DiscrepancyDTO, 0, len(list))
	for _, d := range list {
		out = append(out, toDiscrepancyDTO(d))
	}
	return c.JSON(fiber.Map{"total": len(out), "discrepancies": out})
}

// ResolveDiscrepancy godoc
// @Summary      Resolver una discrepancia pendiente
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "UUID de la discrepancia"
// @Param        body  body  dto.ResolveDiscrepancyRequest  true  "resolution: adjust|accept_system; reason obligatorio para adjust"
// @Success      200   {object}  dto.DiscrepancyDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/discrepancies/{id}/resolve [post]
func (h *AuditHandler) ResolveDiscrepancy(c *fiber.Ctx) error {
	var in dto.ResolveDiscrepancyRequest
	if !parseBody(c, &in) {
		return nil
	}
	d, err := h.uc.ResolveDiscrepancy(c.Context(), GetActor(c), audit.ResolveInput{
		DiscrepancyID: c.Params("id"),
		Resolution:    entity.DiscrepancyResolution(in.Resolution),
		Reason:        in.Reason,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toDiscrepancyDTO(d))
}

func toAuditSessionDTO(s *entity.AuditSession) dto.AuditSessionDTO {
	return dto.AuditSessionDTO{
		ID:          s.ID,
		WarehouseID: s.WarehouseID,
		Zone:        s.Zone,
		Type:        s.Type,
		Status:      string(s.Status),
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		CompletedAt: fmtTime(s.CompletedAt),
		ApprovedBy:  s.ApprovedBy,
		ApprovedAt:  fmtTime(s.ApprovedAt),
	}
}

func toWorksheetItemDTO(item *entity.WorksheetItem) dto.WorksheetItemDTO {
	return dto.WorksheetItemDTO{
		ID:          item.ID,
		AuditID:     item.AuditID,
		ProductID:   item.ProductID,
		WarehouseID: item.WarehouseID,
		Zone:        item.Zone,
		SystemQty:   item.SystemQty,
		CountedQty:  item.CountedQty,
		Variance:    item.Variance,
		CountedBy:   item.CountedBy,
		CountedAt:   fmtTime(item.CountedAt),
	}
}

func toDiscrepancyDTO(d *entity.Discrepancy) dto.DiscrepancyDTO {
	return dto.DiscrepancyDTO{
		ID:               d.ID,
		AuditID:          d.AuditID,
		WorksheetItemID:  d.WorksheetItemID,
		Status:           string(d.Status),
		Resolution:       string(d.Resolution),
		AdjustmentReason: d.AdjustmentReason,
		ResolvedBy:       d.ResolvedBy,
		ResolvedAt:       fmtTime(d.ResolvedAt),
		CreatedAt:        d.CreatedAt.Format(time.RFC3339),
	}
}
