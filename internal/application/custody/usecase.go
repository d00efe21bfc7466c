package custody

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

// Config parámetros del flujo de custodia.
type Config struct {
	// ApprovalThreshold valor monetario desde el cual un traslado exige
	// visto bueno administrativo (los administradores quedan exentos).
	ApprovalThreshold decimal.Decimal
}

// WorkflowUseCase gobierna la cadena de custodia de ítems de alto valor:
// solicitudes de traslado con compuerta de aprobación por umbral, decisión
// administrativa y acuse de recibo del custodio. Toda operación que cambia
// estado deja una entrada inmutable en la bitácora.
type WorkflowUseCase struct {
	txRunner TxRunner
	cfg      Config
}

// NewWorkflowUseCase construye el caso de uso.
func NewWorkflowUseCase(txRunner TxRunner, cfg Config) *WorkflowUseCase {
	return &WorkflowUseCase{txRunner: txRunner, cfg: cfg}
}

// RegisterInput alta de un ítem bajo custodia.
type RegisterInput struct {
	ProductID    string
	SerialNumber string
	Custodian    string
}

// RegisterItem da de alta un ítem en in_storage bajo el custodio indicado.
func (uc *WorkflowUseCase) RegisterItem(ctx context.Context, actor entity.Actor, input RegisterInput) (*entity.CustodyItem, error) {
	if input.ProductID == "" || input.SerialNumber == "" || input.Custodian == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now()
	var result *entity.CustodyItem

	err := uc.txRunner.RunCustody(ctx, func(
		custodyRepo repository.CustodyRepository,
		productRepo repository.ProductRepository,
		logRepo repository.AuditLogRepository,
	) error {
		product, err := productRepo.GetByID(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		item := &entity.CustodyItem{
			ID:           uuid.New().String(),
			ProductID:    input.ProductID,
			SerialNumber: input.SerialNumber,
			Custodian:    input.Custodian,
			Status:       entity.CustodyInStorage,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := custodyRepo.CreateItem(item); err != nil {
			return err
		}
		result = item

		return uc.appendLog(logRepo, actor, "custody.register", item.ID, map[string]any{
			"product_id": input.ProductID,
			"serial":     input.SerialNumber,
			"custodian":  input.Custodian,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TransferInput solicitud de traslado de custodia.
type TransferInput struct {
	ItemID      string
	ToCustodian string
	Reason      string
	// Assignment marca el traslado como asignación a persona: el acuse de
	// recibo dejará el ítem en assigned en lugar de in_storage.
	Assignment bool
	// RequireApproval fuerza la compuerta de aprobación aunque el valor no
	// alcance el umbral.
	RequireApproval bool
}

// TransferResult resultado de una solicitud: o bien quedó pendiente de
// aprobación (Approval != nil, ítem intacto) o el traslado se ejecutó
// (Transfer e Item reflejan el nuevo estado).
type TransferResult struct {
	Approval *entity.ApprovalRequest
	Transfer *entity.CustodyTransfer
	Item     *entity.CustodyItem
}

// RequestTransfer solicita un traslado de custodia. Exige aprobación cuando
// el solicitante la pide o cuando el valor del ítem (precio actual del
// producto) alcanza el umbral configurado, salvo que el solicitante sea
// administrador. Si exige aprobación crea una solicitud pendiente sin tocar
// el ítem; si no, ejecuta el traslado inmediatamente.
func (uc *WorkflowUseCase) RequestTransfer(ctx context.Context, actor entity.Actor, input TransferInput) (*TransferResult, error) {
	if input.ItemID == "" || input.ToCustodian == "" || input.Reason == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now()
	var result TransferResult

	err := uc.txRunner.RunCustody(ctx, func(
		custodyRepo repository.CustodyRepository,
		productRepo repository.ProductRepository,
		logRepo repository.AuditLogRepository,
	) error {
		item, err := custodyRepo.GetItemForUpdate(input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if !item.Status.CanTransitionTo(entity.CustodyInTransit) {
			return domain.ErrInvalidState
		}
		if item.Custodian == input.ToCustodian {
			return domain.ErrValidation
		}
		product, err := productRepo.GetByID(item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		value := product.Price

		needsApproval := (input.RequireApproval || value.GreaterThanOrEqual(uc.cfg.ApprovalThreshold)) && !actor.IsAdmin()
		if needsApproval {
			request := &entity.ApprovalRequest{
				ID:          uuid.New().String(),
				ItemID:      item.ID,
				ToCustodian: input.ToCustodian,
				Reason:      input.Reason,
				Assignment:  input.Assignment,
				ItemValue:   value,
				Status:      entity.ApprovalPending,
				RequestedBy: actor.ID,
				CreatedAt:   now,
			}
			if err := custodyRepo.CreateApproval(request); err != nil {
				return err
			}
			result.Approval = request
			result.Item = item

			return uc.appendLog(logRepo, actor, "custody.request_approval", item.ID, map[string]any{
				"request_id":   request.ID,
				"to_custodian": input.ToCustodian,
				"value":        value.String(),
			}, now)
		}

		transfer, err := uc.performTransfer(custodyRepo, logRepo, actor, item, input.ToCustodian, input.Reason, input.Assignment, now)
		if err != nil {
			return err
		}
		result.Transfer = transfer
		result.Item = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// performTransfer efectos del traslado inmediato: registra el
// CustodyTransfer, pone el ítem en in_transit con el nuevo custodio y deja
// bitácora. Mismos efectos para traslado directo y para aprobación.
func (uc *WorkflowUseCase) performTransfer(
	custodyRepo repository.CustodyRepository,
	logRepo repository.AuditLogRepository,
	actor entity.Actor,
	item *entity.CustodyItem,
	toCustodian, reason string,
	assignment bool,
	now time.Time,
) (*entity.CustodyTransfer, error) {
	transfer := &entity.CustodyTransfer{
		ID:            uuid.New().String(),
		ItemID:        item.ID,
		FromCustodian: item.Custodian,
		ToCustodian:   toCustodian,
		Reason:        reason,
		Assignment:    assignment,
		AuthorizedBy:  actor.ID,
		CreatedAt:     now,
	}
	if err := custodyRepo.CreateTransfer(transfer); err != nil {
		return nil, err
	}
	item.Status = entity.CustodyInTransit
	item.Custodian = toCustodian
	item.UpdatedAt = now
	if err := custodyRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	if err := uc.appendLog(logRepo, actor, "custody.transfer", item.ID, map[string]any{
		"transfer_id": transfer.ID,
		"from":        transfer.FromCustodian,
		"to":          toCustodian,
		"reason":      reason,
	}, now); err != nil {
		return nil, err
	}
	return transfer, nil
}

// ApproveTransfer (solo administradores) aprueba una solicitud pendiente y
// ejecuta exactamente los efectos del traslado inmediato con las partes
// originalmente solicitadas.
func (uc *WorkflowUseCase) ApproveTransfer(ctx context.Context, actor entity.Actor, requestID, notes string) (*TransferResult, error) {
	if requestID == "" {
		return nil, domain.ErrValidation
	}
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now()
	var result TransferResult

	err := uc.txRunner.RunCustody(ctx, func(
		custodyRepo repository.CustodyRepository,
		_ repository.ProductRepository,
		logRepo repository.AuditLogRepository,
	) error {
		request, err := custodyRepo.GetApprovalForUpdate(requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		if request.Status != entity.ApprovalPending {
			return domain.ErrInvalidState
		}
		item, err := custodyRepo.GetItemForUpdate(request.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if !item.Status.CanTransitionTo(entity.CustodyInTransit) {
			return domain.ErrInvalidState
		}

		transfer, err := uc.performTransfer(custodyRepo, logRepo, actor, item, request.ToCustodian, request.Reason, request.Assignment, now)
		if err != nil {
			return err
		}

		request.Status = entity.ApprovalApproved
		request.ApprovedBy = actor.ID
		request.Notes = notes
		request.DecidedAt = &now
		if err := custodyRepo.UpdateApproval(request); err != nil {
			return err
		}
		result.Approval = request
		result.Transfer = transfer
		result.Item = item

		return uc.appendLog(logRepo, actor, "custody.approve", item.ID, map[string]any{
			"request_id":  request.ID,
			"transfer_id": transfer.ID,
			"notes":       notes,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RejectTransfer (solo administradores) rechaza una solicitud pendiente.
// Solo muta la solicitud; el ítem queda intacto.
func (uc *WorkflowUseCase) RejectTransfer(ctx context.Context, actor entity.Actor, requestID, notes string) (*entity.ApprovalRequest, error) {
	if requestID == "" {
		return nil, domain.ErrValidation
	}
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now()
	var result *entity.ApprovalRequest

	err := uc.txRunner.RunCustody(ctx, func(
		custodyRepo repository.CustodyRepository,
		_ repository.ProductRepository,
		logRepo repository.AuditLogRepository,
	) error {
		request, err := custodyRepo.GetApprovalForUpdate(requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		if request.Status != entity.ApprovalPending {
			return domain.ErrInvalidState
		}
		request.Status = entity.ApprovalRejected
		request.ApprovedBy = actor.ID
		request.Notes = notes
		request.DecidedAt = &now
		if err := custodyRepo.UpdateApproval(request); err != nil {
			return err
		}
		result = request

		return uc.appendLog(logRepo, actor, "custody.reject", request.ItemID, map[string]any{
			"request_id": request.ID,
			"notes":      notes,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AckResult resultado del acuse de recibo.
type AckResult struct {
	Item     *entity.CustodyItem
	Transfer *entity.CustodyTransfer
}

// AcknowledgeReceipt acusa recibo del traslado más reciente cuyo
// destinatario es el actor. Solo el custodio actual puede acusar; estampa la
// hora en el traslado y deja el ítem en in_storage (o assigned si el
// traslado era una asignación).
func (uc *WorkflowUseCase) AcknowledgeReceipt(ctx context.Context, actor entity.Actor, itemID string) (*AckResult, error) {
	if itemID == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now()
	var result AckResult

	err := uc.txRunner.RunCustody(ctx, func(
		custodyRepo repository.CustodyRepository,
		_ repository.ProductRepository,
		logRepo repository.AuditLogRepository,
	) error {
		item, err := custodyRepo.GetItemForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.Custodian != actor.ID {
			return domain.ErrUnauthorized
		}
		transfer, err := custodyRepo.GetLatestUnacknowledged(itemID)
		if err != nil {
			return err
		}
		if transfer == nil || transfer.ToCustodian != actor.ID {
			return domain.ErrNotFound
		}
		if item.Status != entity.CustodyInTransit {
			return domain.ErrInvalidState
		}

		transfer.AcknowledgedAt = &now
		if err := custodyRepo.UpdateTransfer(transfer); err != nil {
			return err
		}
		next := entity.CustodyInStorage
		if transfer.Assignment {
			next = entity.CustodyAssigned
		}
		item.Status = next
		item.UpdatedAt = now
		if err := custodyRepo.UpdateItem(item); err != nil {
			return err
		}
		result.Item = item
		result.Transfer = transfer

		return uc.appendLog(logRepo, actor, "custody.acknowledge", item.ID, map[string]any{
			"transfer_id": transfer.ID,
			"status":      string(next),
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// appendLog agrega una entrada inmutable de bitácora con payload JSON.
func (uc *WorkflowUseCase) appendLog(logRepo repository.AuditLogRepository, actor entity.Actor, action, itemID string, details map[string]any, now time.Time) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return logRepo.Append(&entity.AuditLogEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "custody_item",
		EntityID:   itemID,
		Details:    payload,
		CreatedAt:  now,
	})
}
