package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lechibang-1512/stockguard-api/internal/domain"
	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// WorkflowUseCase gobierna el ciclo de una auditoría física:
// in_progress -> pending_approval -> completed, sin saltos ni retrocesos.
// Las correcciones al libro mayor derivadas de discrepancias pasan por el
// mismo camino de filas bloqueadas que usa el libro.
type WorkflowUseCase struct {
	txRunner TxRunner
}

// NewWorkflowUseCase construye el caso de uso.
func NewWorkflowUseCase(txRunner TxRunner) *WorkflowUseCase {
	return &WorkflowUseCase{txRunner: txRunner}
}

// CreateInput alcance y tipo de la auditoría a abrir.
type CreateInput struct {
	WarehouseID string
	Zone        string // vacío = toda la bodega
	Type        string // cycle_count, full_count...
}

// CreateResult sesión abierta con su hoja de conteo.
type CreateResult struct {
	Session *entity.AuditSession
	Items   []*entity.WorksheetItem
}

// CreateAudit abre una sesión in_progress y genera un ítem de hoja de
// conteo por cada producto con stock en el alcance, congelando SystemQty
// desde LocationStock en ese instante.
func (uc *WorkflowUseCase) CreateAudit(ctx context.Context, actor entity.Actor, input CreateInput) (*CreateResult, error) {
	if input.WarehouseID == "" {
		return nil, domain.ErrValidation
	}
	auditType := input.Type
	if auditType == "" {
		auditType = "cycle_count"
	}

	now := time.Now()
	var result CreateResult

	err := uc.txRunner.RunAudit(ctx, func(
		auditRepo repository.AuditRepository,
		_ repository.ProductRepository,
		stockRepo repository.LocationStockRepository,
		_ repository.StockMovementRepository,
		logRepo repository.AuditLogRepository,
	) error {
		stocks, err := stockRepo.ListByScope(input.WarehouseID, input.Zone)
		if err != nil {
			return err
		}
		session := &entity.AuditSession{
			ID:          uuid.New().String(),
			WarehouseID: input.WarehouseID,
			Zone:        input.Zone,
			Type:        auditType,
			Status:      entity.AuditInProgress,
			CreatedBy:   actor.ID,
			CreatedAt:   now,
		}
		if err := auditRepo.CreateSession(session); err != nil {
			return err
		}

		items := make([]*entity.WorksheetItem, 0, len(stocks))
		for _, s := range stocks {
			if !s.Quantity.IsPositive() {
				continue
			}
			items = append(items, &entity.WorksheetItem{
				ID:          uuid.New().String(),
				AuditID:     session.ID,
				ProductID:   s.ProductID,
				WarehouseID: s.WarehouseID,
				Zone:        s.Zone,
				SystemQty:   s.Quantity,
			})
		}
		if len(items) > 0 {
			if err := auditRepo.CreateItems(items); err != nil {
				return err
			}
		}
		result.Session = session
		result.Items = items

		return appendLog(logRepo, actor, "audit.create", "audit_session", session.ID, map[string]any{
			"warehouse_id": input.WarehouseID,
			"zone":         input.Zone,
			"type":         auditType,
			"items":        len(items),
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RecordCount registra la cantidad contada de un ítem. Solo se acepta con
// la sesión in_progress. Calcula la varianza (contado - sistema) y crea una
// discrepancia pendiente cuando supera estrictamente el 10% de la cantidad
// de sistema; un reconteo reemplaza el conteo anterior y re-deriva la
// discrepancia desde la nueva varianza: si sigue siendo material conserva la
// pendiente existente, si dejó de serlo la elimina.
func (uc *WorkflowUseCase) RecordCount(ctx context.Context, actor entity.Actor, auditID, itemID string, counted decimal.Decimal) (*entity.WorksheetItem, error) {
	if auditID == "" || itemID == "" || counted.IsNegative() {
		return nil, domain.ErrValidation
	}

	now := time.Now()
	var result *entity.WorksheetItem

	err := uc.txRunner.RunAudit(ctx, func(
		auditRepo repository.AuditRepository,
		_ repository.ProductRepository,
		_ repository.LocationStockRepository,
		_ repository.StockMovementRepository,
		logRepo repository.AuditLogRepository,
	) error {
		session, err := auditRepo.GetSessionForUpdate(auditID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if session.Status != entity.AuditInProgress {
			return domain.ErrInvalidState
		}
		item, err := auditRepo.GetItem(itemID)
		if err != nil {
			return err
		}
		if item == nil || item.AuditID != auditID {
			return domain.ErrNotFound
		}

		countedQty := counted
		item.CountedQty = &countedQty
		item.Variance = counted.Sub(item.SystemQty)
		item.CountedBy = actor.ID
		item.CountedAt = &now
		if err := auditRepo.UpdateItem(item); err != nil {
			return err
		}

		// Re-derivación tras un reconteo: la discrepancia pendiente sigue a
		// la varianza vigente.
		existing, err := auditRepo.GetPendingDiscrepancyByItem(item.ID)
		if err != nil {
			return err
		}
		switch {
		case item.ExceedsThreshold() && existing == nil:
			d := &entity.Discrepancy{
				ID:              uuid.New().String(),
				AuditID:         auditID,
				WorksheetItemID: item.ID,
				Status:          entity.DiscrepancyPending,
				CreatedAt:       now,
			}
			if err := auditRepo.CreateDiscrepancy(d); err != nil {
				return err
			}
		case !item.ExceedsThreshold() && existing != nil:
			if err := auditRepo.DeletePendingDiscrepancyByItem(item.ID); err != nil {
				return err
			}
		}
		result = item

		return appendLog(logRepo, actor, "audit.count", "worksheet_item", item.ID, map[string]any{
			"audit_id":   auditID,
			"system_qty": item.SystemQty.String(),
			"counted":    counted.String(),
			"variance":   item.Variance.String(),
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ResolveInput cómo resolver una discrepancia.
type ResolveInput struct {
	DiscrepancyID string
	Resolution    entity.DiscrepancyResolution
	Reason        string // obligatorio para adjust
}

// ResolveDiscrepancy resuelve una discrepancia pendiente. Con adjust aplica
// la varianza como corrección con signo al LocationStock afectado y al
// agregado del producto, y deja una fila ADJUSTMENT en el libro; con
// accept_system solo marca resuelta (el conteo físico se descarta).
func (uc *WorkflowUseCase) ResolveDiscrepancy(ctx context.Context, actor entity.Actor, input ResolveInput) (*entity.Discrepancy, error) {
	if input.DiscrepancyID == "" || !input.Resolution.Valid() {
		return nil, domain.ErrValidation
	}
	if input.Resolution == entity.ResolutionAdjust && input.Reason == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now()
	var result *entity.Discrepancy

	err := uc.txRunner.RunAudit(ctx, func(
		auditRepo repository.AuditRepository,
		productRepo repository.ProductRepository,
		stockRepo repository.LocationStockRepository,
		movRepo repository.StockMovementRepository,
		logRepo repository.AuditLogRepository,
	) error {
		d, err := auditRepo.GetDiscrepancyForUpdate(input.DiscrepancyID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.Status != entity.DiscrepancyPending {
			return domain.ErrInvalidState
		}
		session, err := auditRepo.GetSession(d.AuditID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if session.Status != entity.AuditInProgress {
			return domain.ErrInvalidState
		}

		if input.Resolution == entity.ResolutionAdjust {
			item, err := auditRepo.GetItem(d.WorksheetItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			if err := uc.applyAdjustment(productRepo, stockRepo, movRepo, actor, item, input.Reason, now); err != nil {
				return err
			}
		}

		d.Status = entity.DiscrepancyResolved
		d.Resolution = input.Resolution
		d.AdjustmentReason = input.Reason
		d.ResolvedBy = actor.ID
		d.ResolvedAt = &now
		if err := auditRepo.UpdateDiscrepancy(d); err != nil {
			return err
		}
		result = d

		return appendLog(logRepo, actor, "audit.resolve_discrepancy", "discrepancy", d.ID, map[string]any{
			"audit_id":   d.AuditID,
			"resolution": string(input.Resolution),
			"reason":     input.Reason,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyAdjustment aplica la varianza del ítem como corrección al stock de la
// ubicación y al agregado, bajo las mismas filas bloqueadas de la tx actual.
// La corrección nunca puede dejar la ubicación en negativo.
func (uc *WorkflowUseCase) applyAdjustment(
	productRepo repository.ProductRepository,
	stockRepo repository.LocationStockRepository,
	movRepo repository.StockMovementRepository,
	actor entity.Actor,
	item *entity.WorksheetItem,
	reason string,
	now time.Time,
) error {
	variance := item.Variance
	if variance.IsZero() {
		return nil
	}
	stock, err := stockRepo.GetForUpdate(item.ProductID, item.WarehouseID, item.Zone)
	if err != nil {
		return err
	}
	newQty := stock.Quantity.Add(variance)
	if newQty.IsNegative() {
		return &domain.InsufficientStockError{Requested: variance.Abs(), Available: stock.Quantity}
	}
	stock.Quantity = newQty
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}

	product, err := productRepo.GetByIDForUpdate(item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	product.Quantity = product.Quantity.Add(variance)
	product.UpdatedAt = now
	if err := productRepo.Update(product); err != nil {
		return err
	}

	return movRepo.Create(&entity.StockMovement{
		TransactionID: uuid.New().String(),
		ProductID:     item.ProductID,
		WarehouseID:   item.WarehouseID,
		Zone:          item.Zone,
		Type:          entity.MovementAdjustment,
		Quantity:      variance,
		Reference:     reason,
		CreatedAt:     now,
		CreatedBy:     actor.ID,
	})
}

// CompleteAudit transiciona in_progress -> pending_approval. Se rechaza con
// ErrInvalidState si algún ítem sigue sin contar o queda alguna discrepancia
// pendiente; ambas condiciones se verifican juntas al momento del cierre.
func (uc *WorkflowUseCase) CompleteAudit(ctx context.Context, actor entity.Actor, auditID string) (*entity.AuditSession, error) {
	if auditID == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now()
	var result *entity.AuditSession

	err := uc.txRunner.RunAudit(ctx, func(
		auditRepo repository.AuditRepository,
		_ repository.ProductRepository,
		_ repository.LocationStockRepository,
		_ repository.StockMovementRepository,
		logRepo repository.AuditLogRepository,
	) error {
		session, err := auditRepo.GetSessionForUpdate(auditID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if !session.Status.CanTransitionTo(entity.AuditPendingApproval) {
			return domain.ErrInvalidState
		}
		uncounted, err := auditRepo.CountUncounted(auditID)
		if err != nil {
			return err
		}
		pending, err := auditRepo.CountPendingDiscrepancies(auditID)
		if err != nil {
			return err
		}
		if uncounted > 0 || pending > 0 {
			return domain.ErrInvalidState
		}

		session.Status = entity.AuditPendingApproval
		session.CompletedAt = &now
		if err := auditRepo.UpdateSession(session); err != nil {
			return err
		}
		result = session

		return appendLog(logRepo, actor, "audit.complete", "audit_session", session.ID, map[string]any{
			"warehouse_id": session.WarehouseID,
			"zone":         session.Zone,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApproveAudit transiciona pending_approval -> completed (solo
// administradores) y estampa LastAuditedAt en cada ubicación tocada por la
// hoja de conteo. Es el único camino a completed; no existe reabrir ni
// rechazar.
func (uc *WorkflowUseCase) ApproveAudit(ctx context.Context, actor entity.Actor, auditID string) (*entity.AuditSession, error) {
	if auditID == "" {
		return nil, domain.ErrValidation
	}
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now()
	var result *entity.AuditSession

	err := uc.txRunner.RunAudit(ctx, func(
		auditRepo repository.AuditRepository,
		_ repository.ProductRepository,
		stockRepo repository.LocationStockRepository,
		_ repository.StockMovementRepository,
		logRepo repository.AuditLogRepository,
	) error {
		session, err := auditRepo.GetSessionForUpdate(auditID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if !session.Status.CanTransitionTo(entity.AuditCompleted) {
			return domain.ErrInvalidState
		}

		session.Status = entity.AuditCompleted
		session.ApprovedBy = actor.ID
		session.ApprovedAt = &now
		if err := auditRepo.UpdateSession(session); err != nil {
			return err
		}

		items, err := auditRepo.ListItems(auditID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := stockRepo.StampAudited(item.ProductID, item.WarehouseID, item.Zone, now); err != nil {
				return err
			}
		}
		result = session

		return appendLog(logRepo, actor, "audit.approve", "audit_session", session.ID, map[string]any{
			"warehouse_id": session.WarehouseID,
			"zone":         session.Zone,
			"items":        len(items),
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// appendLog agrega una entrada inmutable de bitácora con payload JSON.
func appendLog(logRepo repository.AuditLogRepository, actor entity.Actor, action, entityType, entityID string, details map[string]any, now time.Time) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return logRepo.Append(&entity.AuditLogEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    payload,
		CreatedAt:  now,
	})
}
