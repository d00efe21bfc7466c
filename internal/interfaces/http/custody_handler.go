package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lechibang-1512/stockguard-api/internal/application/custody"
	"github.com/lechibang-1512/stockguard-api/internal/application/dto"
	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// CustodyHandler maneja la cadena de custodia de ítems de alto valor (protegido).
type CustodyHandler struct {
	uc          *custody.WorkflowUseCase
	custodyRepo repository.CustodyRepository
	logRepo     repository.AuditLogRepository
}

// NewCustodyHandler construye el handler.
func NewCustodyHandler(uc *custody.WorkflowUseCase, custodyRepo repository.CustodyRepository, logRepo repository.AuditLogRepository) *CustodyHandler {
	return &CustodyHandler{uc: uc, custodyRepo: custodyRepo, logRepo: logRepo}
}

// RegisterItem godoc
// @Summary      Registrar un ítem bajo custodia
// @Tags         custody
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterCustodyItemRequest  true  "product_id, serial_number, custodian"
// @Success      201   {object}  dto.CustodyItemDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/custody/items [post]
func (h *CustodyHandler) RegisterItem(c *fiber.Ctx) error {
	var in dto.RegisterCustodyItemRequest
	if !parseBody(c, &in) {
		return nil
	}
	item, err := h.uc.RegisterItem(c.Context(), GetActor(c), custody.RegisterInput{
		ProductID:    in.ProductID,
		SerialNumber: in.SerialNumber,
		Custodian:    in.Custodian,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCustodyItemDTO(item))
}

// RequestTransfer godoc
// @Summary      Solicitar traslado de custodia
// @Description  Si el valor del ítem alcanza el umbral configurado (o el
//
//	solicitante pide aprobación) y el actor no es admin, queda una
//	solicitud pendiente; si no, el traslado se ejecuta de inmediato.
//
// @Tags         custody
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "UUID del ítem"
// @Param        body  body  dto.RequestTransferRequest  true  "to_custodian, reason; assignment/require_approval opcionales"
// @Success      200   {object}  dto.TransferRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/custody/items/{id}/transfer [post]
func (h *CustodyHandler) RequestTransfer(c *fiber.Ctx) error {
	var in dto.RequestTransferRequest
	if !parseBody(c, &in) {
		return nil
	}
	result, err := h.uc.RequestTransfer(c.Context(), GetActor(c), custody.TransferInput{
		ItemID:          c.Params("id"),
		ToCustodian:     in.ToCustodian,
		Reason:          in.Reason,
		Assignment:      in.Assignment,
		RequireApproval: in.RequireApproval,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransferResultDTO(result))
}

// ListPendingApprovals godoc
// @Summary      Solicitudes de aprobación pendientes
// @Tags         custody
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ApprovalRequestDTO
// @Router       /api/custody/approvals [get]
func (h *CustodyHandler) ListPendingApprovals(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.custodyRepo.ListPendingApprovals(page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.ApprovalRequestDTO, 0, len(list))
	for _, a := range list {
		out = append(out, *toApprovalRequestDTO(a))
	}
	return c.JSON(fiber.Map{"total": len(out), "approvals": out})
}

// ApproveTransfer godoc
// @Summary      Aprobar una solicitud de traslado (solo admin)
// @Tags         custody
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "UUID de la solicitud"
// @Param        body  body  dto.TransferDecisionRequest  false "notes"
// @Success      200   {object}  dto.TransferRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/custody/approvals/{id}/approve [post]
func (h *CustodyHandler) ApproveTransfer(c *fiber.Ctx) error {
	var in dto.TransferDecisionRequest
	if len(c.Body()) > 0 && !parseBody(c, &in) {
		return nil
	}
	result, err := h.uc.ApproveTransfer(c.Context(), GetActor(c), c.Params("id"), in.Notes)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransferResultDTO(result))
}

// RejectTransfer godoc
// @Summary      Rechazar una solicitud de traslado (solo admin)
// @Tags         custody
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "UUID de la solicitud"
// @Param        body  body  dto.TransferDecisionRequest  false "notes"
// @Success      200   {object}  dto.ApprovalRequestDTO
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/custody/approvals/{id}/reject [post]
func (h *CustodyHandler) RejectTransfer(c *fiber.Ctx) error {
	var in dto.TransferDecisionRequest
	if len(c.Body()) > 0 && !parseBody(c, &in) {
		return nil
	}
	request, err := h.uc.RejectTransfer(c.Context(), GetActor(c), c.Params("id"), in.Notes)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toApprovalRequestDTO(request))
}

// Acknowledge godoc
// @Summary      Acusar recibo del traslado (solo el custodio actual)
// @Tags         custody
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del ítem"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/custody/items/{id}/acknowledge [post]
func (h *CustodyHandler) Acknowledge(c *fiber.Ctx) error {
	result, err := h.uc.AcknowledgeReceipt(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"item":     toCustodyItemDTO(result.Item),
		"transfer": toCustodyTransferDTO(result.Transfer),
	})
}

// ListTransfers godoc
// @Summary      Cadena de custodia de un ítem (traslados, más recientes primero)
// @Tags         custody
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del ítem"
// @Success      200  {array}  dto.CustodyTransferDTO
// @Router       /api/custody/items/{id}/transfers [get]
func (h *CustodyHandler) ListTransfers(c *fiber.Ctx) error {
	list, err := h.custodyRepo.ListTransfers(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.CustodyTransferDTO, 0, len(list))
	for _, t := range list {
		out = append(out, *toCustodyTransferDTO(t))
	}
	return c.JSON(fiber.Map{"total": len(out), "transfers": out})
}

// ListLog godoc
// @Summary      Bitácora inmutable de un ítem bajo custodia
// @Tags         custody
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del ítem"
// @Success      200  {array}  map[string]interface{}
// @Router       /api/custody/items/{id}/log [get]
func (h *CustodyHandler) ListLog(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	entries, err := h.logRepo.ListByEntity("custody_item", c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		out = append(out, fiber.Map{
			"id":         e.ID,
			"actor_id":   e.ActorID,
			"actor_role": string(e.ActorRole),
			"action":     e.Action,
			"details":    e.Details,
			"created_at": e.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "entries": out})
}

func toCustodyItemDTO(item *entity.CustodyItem) *dto.CustodyItemDTO {
	if item == nil {
		return nil
	}
	return &dto.CustodyItemDTO{
		ID:           item.ID,
		ProductID:    item.ProductID,
		SerialNumber: item.SerialNumber,
		Custodian:    item.Custodian,
		Status:       string(item.Status),
		CreatedAt:    item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.Format(time.RFC3339),
	}
}

func toCustodyTransferDTO(t *entity.CustodyTransfer) *dto.CustodyTransferDTO {
	if t == nil {
		return nil
	}
	return &dto.CustodyTransferDTO{
		ID:             t.ID,
		ItemID:         t.ItemID,
		FromCustodian:  t.FromCustodian,
		ToCustodian:    t.ToCustodian,
		Reason:         t.Reason,
		Assignment:     t.Assignment,
		AuthorizedBy:   t.AuthorizedBy,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		AcknowledgedAt: fmtTime(t.AcknowledgedAt),
	}
}

func toApprovalRequestDTO(a *entity.ApprovalRequest) *dto.ApprovalRequestDTO {
	if a == nil {
		return nil
	}
	return &dto.ApprovalRequestDTO{
		ID:          a.ID,
		ItemID:      a.ItemID,
		ToCustodian: a.ToCustodian,
		Reason:      a.Reason,
		Assignment:  a.Assignment,
		ItemValue:   a.ItemValue,
		Status:      string(a.Status),
		RequestedBy: a.RequestedBy,
		ApprovedBy:  a.ApprovedBy,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		DecidedAt:   fmtTime(a.DecidedAt),
	}
}

func toTransferResultDTO(r *custody.TransferResult) dto.TransferRequestResponse {
	return dto.TransferRequestResponse{
		Approval: toApprovalRequestDTO(r.Approval),
		Transfer: toCustodyTransferDTO(r.Transfer),
		Item:     toCustodyItemDTO(r.Item),
	}
}
