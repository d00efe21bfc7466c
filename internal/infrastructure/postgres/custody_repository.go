package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lechibang-1512/stockguard-api/internal/domain"
	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

var _ repository.CustodyRepository = (*CustodyRepo)(nil)

const (
	custodyItemColumns = "id, product_id, serial_number, custodian, status, created_at, updated_at"
	transferColumns    = "id, item_id, from_custodian, to_custodian, reason, assignment, authorized_by, created_at, acknowledged_at"
	approvalColumns    = "id, item_id, to_custodian, reason, assignment, item_value, status, requested_by, approved_by, notes, created_at, decided_at"
)

// CustodyRepo implementación de CustodyRepository sobre PostgreSQL (usable con pool o tx).
type CustodyRepo struct {
	q Querier
}

// NewCustodyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustodyRepository(q Querier) *CustodyRepo {
	return &CustodyRepo{q: q}
}

// CreateItem persiste un ítem bajo custodia.
func (r *CustodyRepo) CreateItem(item *entity.CustodyItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO custody_items (id, product_id, serial_number, custodian, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ProductID, item.SerialNumber, item.Custodian,
		string(item.Status), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrValidation
		}
		return fmt.Errorf("create custody item: %w", err)
	}
	return nil
}

func scanCustodyItem(row pgx.Row) (*entity.CustodyItem, error) {
	var item entity.CustodyItem
	var status string
	err := row.Scan(&item.ID, &item.ProductID, &item.SerialNumber, &item.Custodian,
		&status, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan custody item: %w", err)
	}
	item.Status = entity.CustodyStatus(status)
	return &item, nil
}

// GetItem obtiene un ítem por ID; (nil, nil) si no existe.
func (r *CustodyRepo) GetItem(id string) (*entity.CustodyItem, error) {
	query := `SELECT ` + custodyItemColumns + ` FROM custody_items WHERE id = $1`
	return scanCustodyItem(r.q.QueryRow(context.Background(), query, id))
}

// GetItemForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
func (r *CustodyRepo) GetItemForUpdate(id string) (*entity.CustodyItem, error) {
	query := `SELECT ` + custodyItemColumns + ` FROM custody_items WHERE id = $1 FOR UPDATE`
	return scanCustodyItem(r.q.QueryRow(context.Background(), query, id))
}

// UpdateItem guarda custodio y estado del ítem.
func (r *CustodyRepo) UpdateItem(item *entity.CustodyItem) error {
	query := `
		UPDATE custody_items
		SET custodian = $2, status = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Custodian, string(item.Status), item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update custody item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update custody item: fila no encontrada")
	}
	return nil
}

// CreateTransfer persiste un traslado de custodia.
func (r *CustodyRepo) CreateTransfer(transfer *entity.CustodyTransfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO custody_transfers (id, item_id, from_custodian, to_custodian, reason, assignment, authorized_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.ItemID, transfer.FromCustodian, transfer.ToCustodian,
		transfer.Reason, transfer.Assignment, transfer.AuthorizedBy, transfer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create custody transfer: %w", err)
	}
	return nil
}

// UpdateTransfer estampa el acuse de recibo; el resto del registro es inmutable.
func (r *CustodyRepo) UpdateTransfer(transfer *entity.CustodyTransfer) error {
	query := `UPDATE custody_transfers SET acknowledged_at = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, transfer.ID, transfer.AcknowledgedAt)
	if err != nil {
		return fmt.Errorf("update custody transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update custody transfer: fila no encontrada")
	}
	return nil
}

func scanTransfer(row pgx.Row) (*entity.CustodyTransfer, error) {
	var t entity.CustodyTransfer
	err := row.Scan(&t.ID, &t.ItemID, &t.FromCustodian, &t.ToCustodian, &t.Reason,
		&t.Assignment, &t.AuthorizedBy, &t.CreatedAt, &t.AcknowledgedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan custody transfer: %w", err)
	}
	return &t, nil
}

// GetLatestUnacknowledged traslado más reciente del ítem sin acuse; (nil, nil) si no hay.
func (r *CustodyRepo) GetLatestUnacknowledged(itemID string) (*entity.CustodyTransfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM custody_transfers
		WHERE item_id = $1 AND acknowledged_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`
	return scanTransfer(r.q.QueryRow(context.Background(), query, itemID))
}

// ListTransfers cadena de custodia del ítem, más reciente primero.
func (r *CustodyRepo) ListTransfers(itemID string) ([]*entity.CustodyTransfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM custody_transfers WHERE item_id = $1
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list custody transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.CustodyTransfer
	for rows.Next() {
		var t entity.CustodyTransfer
		if err := rows.Scan(&t.ID, &t.ItemID, &t.FromCustodian, &t.ToCustodian, &t.Reason,
			&t.Assignment, &t.AuthorizedBy, &t.CreatedAt, &t.AcknowledgedAt); err != nil {
			return nil, fmt.Errorf("scan custody transfer: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// CreateApproval persiste una solicitud de aprobación pendiente.
func (r *CustodyRepo) CreateApproval(request *entity.ApprovalRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	query := `
		INSERT INTO approval_requests (id, item_id, to_custodian, reason, assignment, item_value, status, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		request.ID, request.ItemID, request.ToCustodian, request.Reason, request.Assignment,
		request.ItemValue, string(request.Status), request.RequestedBy, request.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create approval request: %w", err)
	}
	return nil
}

// GetApprovalForUpdate obtiene la solicitud y bloquea la fila (SELECT FOR UPDATE).
func (r *CustodyRepo) GetApprovalForUpdate(id string) (*entity.ApprovalRequest, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE id = $1 FOR UPDATE`
	var a entity.ApprovalRequest
	var status string
	var approvedBy, notes *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.ItemID, &a.ToCustodian, &a.Reason, &a.Assignment, &a.ItemValue,
		&status, &a.RequestedBy, &approvedBy, &notes, &a.CreatedAt, &a.DecidedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan approval request: %w", err)
	}
	a.Status = entity.ApprovalStatus(status)
	if approvedBy != nil {
		a.ApprovedBy = *approvedBy
	}
	if notes != nil {
		a.Notes = *notes
	}
	return &a, nil
}

// UpdateApproval guarda la decisión sobre la solicitud.
func (r *CustodyRepo) UpdateApproval(request *entity.ApprovalRequest) error {
	var approvedBy, notes *string
	if request.ApprovedBy != "" {
		approvedBy = &request.ApprovedBy
	}
	if request.Notes != "" {
		notes = &request.Notes
	}
	query := `
		UPDATE approval_requests
		SET status = $2, approved_by = $3, notes = $4, decided_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		request.ID, string(request.Status), approvedBy, notes, request.DecidedAt)
	if err != nil {
		return fmt.Errorf("update approval request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update approval request: fila no encontrada")
	}
	return nil
}

// ListPendingApprovals solicitudes pendientes, más antiguas primero.
func (r *CustodyRepo) ListPendingApprovals(limit, offset int) ([]*entity.ApprovalRequest, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM approval_requests WHERE status = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, string(entity.ApprovalPending), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending approvals: %w", err)
	}
	defer rows.Close()
	var list []*entity.ApprovalRequest
	for rows.Next() {
		var a entity.ApprovalRequest
		var status string
		var approvedBy, notes *string
		if err := rows.Scan(&a.ID, &a.ItemID, &a.ToCustodian, &a.Reason, &a.Assignment, &a.ItemValue,
			&status, &a.RequestedBy, &approvedBy, &notes, &a.CreatedAt, &a.DecidedAt); err != nil {
			return nil, fmt.Errorf("scan approval request: %w", err)
		}
		a.Status = entity.ApprovalStatus(status)
		if approvedBy != nil {
			a.ApprovedBy = *approvedBy
		}
		if notes != nil {
			a.Notes = *notes
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
