package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

const (
	sessionColumns     = "id, warehouse_id, zone, type, status, created_by, approved_by, created_at, completed_at, approved_at"
	itemColumns        = "id, audit_id, product_id, warehouse_id, zone, system_qty, counted_qty, variance, counted_by, counted_at"
	discrepancyColumns = "id, audit_id, worksheet_item_id, status, resolution, adjustment_reason, resolved_by, created_at, resolved_at"
)

// AuditRepo implementación de AuditRepository sobre PostgreSQL (usable con pool o tx).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// CreateSession persiste una sesión de auditoría.
func (r *AuditRepo) CreateSession(session *entity.AuditSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_sessions (id, warehouse_id, zone, type, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.WarehouseID, session.Zone, session.Type,
		string(session.Status), session.CreatedBy, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit session: %w", err)
	}
	return nil
}

func scanSession(row pgx.Row) (*entity.AuditSession, error) {
	var s entity.AuditSession
	var status string
	var approvedBy *string
	err := row.Scan(&s.ID, &s.WarehouseID, &s.Zone, &s.Type, &status,
		&s.CreatedBy, &approvedBy, &s.CreatedAt, &s.CompletedAt, &s.ApprovedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan audit session: %w", err)
	}
	s.Status = entity.AuditStatus(status)
	if approvedBy != nil {
		s.ApprovedBy = *approvedBy
	}
	return &s, nil
}

// GetSession obtiene una sesión por ID; (nil, nil) si no existe.
func (r *AuditRepo) GetSession(id string) (*entity.AuditSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM audit_sessions WHERE id = $1`
	return scanSession(r.q.QueryRow(context.Background(), query, id))
}

// GetSessionForUpdate obtiene la sesión y bloquea la fila (SELECT FOR UPDATE).
func (r *AuditRepo) GetSessionForUpdate(id string) (*entity.AuditSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM audit_sessions WHERE id = $1 FOR UPDATE`
	return scanSession(r.q.QueryRow(context.Background(), query, id))
}

// UpdateSession guarda estado, aprobador y marcas de tiempo de la sesión.
func (r *AuditRepo) UpdateSession(session *entity.AuditSession) error {
	var approvedBy *string
	if session.ApprovedBy != "" {
		approvedBy = &session.ApprovedBy
	}
	query := `
		UPDATE audit_sessions
		SET status = $2, approved_by = $3, completed_at = $4, approved_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		session.ID, string(session.Status), approvedBy, session.CompletedAt, session.ApprovedAt)
	if err != nil {
		return fmt.Errorf("update audit session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update audit session: fila no encontrada")
	}
	return nil
}

// CreateItems persiste los ítems de la hoja de conteo.
func (r *AuditRepo) CreateItems(items []*entity.WorksheetItem) error {
	query := `
		INSERT INTO worksheet_items (id, audit_id, product_id, warehouse_id, zone, system_qty, variance)
		VALUES ($1, $2, $3, $4, $5, $6, 0)`
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		if _, err := r.q.Exec(context.Background(), query,
			item.ID, item.AuditID, item.ProductID, item.WarehouseID, item.Zone, item.SystemQty); err != nil {
			return fmt.Errorf("create worksheet item: %w", err)
		}
	}
	return nil
}

// GetItem obtiene un ítem por ID; (nil, nil) si no existe.
func (r *AuditRepo) GetItem(id string) (*entity.WorksheetItem, error) {
	query := `SELECT ` + itemColumns + ` FROM worksheet_items WHERE id = $1`
	var item entity.WorksheetItem
	var countedBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&item.ID, &item.AuditID, &item.ProductID, &item.WarehouseID, &item.Zone,
		&item.SystemQty, &item.CountedQty, &item.Variance, &countedBy, &item.CountedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan worksheet item: %w", err)
	}
	if countedBy != nil {
		item.CountedBy = *countedBy
	}
	return &item, nil
}

// UpdateItem guarda conteo y varianza del ítem.
func (r *AuditRepo) UpdateItem(item *entity.WorksheetItem) error {
	var countedBy *string
	if item.CountedBy != "" {
		countedBy = &item.CountedBy
	}
	query := `
		UPDATE worksheet_items
		SET counted_qty = $2, variance = $3, counted_by = $4, counted_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.CountedQty, item.Variance, countedBy, item.CountedAt)
	if err != nil {
		return fmt.Errorf("update worksheet item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update worksheet item: fila no encontrada")
	}
	return nil
}

// ListItems la hoja de conteo completa de una auditoría.
func (r *AuditRepo) ListItems(auditID string) ([]*entity.WorksheetItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM worksheet_items WHERE audit_id = $1
		ORDER BY product_id, zone`
	rows, err := r.q.Query(context.Background(), query, auditID)
	if err != nil {
		return nil, fmt.Errorf("list worksheet items: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorksheetItem
	for rows.Next() {
		var item entity.WorksheetItem
		var countedBy *string
		if err := rows.Scan(&item.ID, &item.AuditID, &item.ProductID, &item.WarehouseID, &item.Zone,
			&item.SystemQty, &item.CountedQty, &item.Variance, &countedBy, &item.CountedAt); err != nil {
			return nil, fmt.Errorf("scan worksheet item: %w", err)
		}
		if countedBy != nil {
			item.CountedBy = *countedBy
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// CountUncounted cuántos ítems de la auditoría siguen sin contar.
func (r *AuditRepo) CountUncounted(auditID string) (int, error) {
	query := `SELECT COUNT(*) FROM worksheet_items WHERE audit_id = $1 AND counted_qty IS NULL`
	var n int
	if err := r.q.QueryRow(context.Background(), query, auditID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count uncounted: %w", err)
	}
	return n, nil
}

// CreateDiscrepancy persiste una discrepancia pendiente.
func (r *AuditRepo) CreateDiscrepancy(d *entity.Discrepancy) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	query := `
		INSERT INTO discrepancies (id, audit_id, worksheet_item_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.AuditID, d.WorksheetItemID, string(d.Status), d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create discrepancy: %w", err)
	}
	return nil
}

func scanDiscrepancy(row pgx.Row) (*entity.Discrepancy, error) {
	var d entity.Discrepancy
	var status string
	var resolution, reason, resolvedBy *string
	err := row.Scan(&d.ID, &d.AuditID, &d.WorksheetItemID, &status,
		&resolution, &reason, &resolvedBy, &d.CreatedAt, &d.ResolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan discrepancy: %w", err)
	}
	d.Status = entity.DiscrepancyStatus(status)
	if resolution != nil {
		d.Resolution = entity.DiscrepancyResolution(*resolution)
	}
	if reason != nil {
		d.AdjustmentReason = *reason
	}
	if resolvedBy != nil {
		d.ResolvedBy = *resolvedBy
	}
	return &d, nil
}

// GetDiscrepancyForUpdate obtiene la discrepancia y bloquea la fila.
func (r *AuditRepo) GetDiscrepancyForUpdate(id string) (*entity.Discrepancy, error) {
	query := `SELECT ` + discrepancyColumns + ` FROM discrepancies WHERE id = $1 FOR UPDATE`
	return scanDiscrepancy(r.q.QueryRow(context.Background(), query, id))
}

// UpdateDiscrepancy guarda estado y resolución de una discrepancia.
func (r *AuditRepo) UpdateDiscrepancy(d *entity.Discrepancy) error {
	var resolution, reason, resolvedBy *string
	if d.Resolution != "" {
		s := string(d.Resolution)
		resolution = &s
	}
	if d.AdjustmentReason != "" {
		reason = &d.AdjustmentReason
	}
	if d.ResolvedBy != "" {
		resolvedBy = &d.ResolvedBy
	}
	query := `
		UPDATE discrepancies
		SET status = $2, resolution = $3, adjustment_reason = $4, resolved_by = $5, resolved_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		d.ID, string(d.Status), resolution, reason, resolvedBy, d.ResolvedAt)
	if err != nil {
		return fmt.Errorf("update discrepancy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update discrepancy: fila no encontrada")
	}
	return nil
}

// GetPendingDiscrepancyByItem discrepancia pendiente de un ítem; (nil, nil) si no hay.
func (r *AuditRepo) GetPendingDiscrepancyByItem(itemID string) (*entity.Discrepancy, error) {
	query := `
		SELECT ` + discrepancyColumns + `
		FROM discrepancies WHERE worksheet_item_id = $1 AND status = $2`
	return scanDiscrepancy(r.q.QueryRow(context.Background(), query, itemID, string(entity.DiscrepancyPending)))
}

// DeletePendingDiscrepancyByItem elimina la discrepancia pendiente de un ítem
// (un reconteo la re-deriva). Las resueltas nunca se tocan.
func (r *AuditRepo) DeletePendingDiscrepancyByItem(itemID string) error {
	query := `DELETE FROM discrepancies WHERE worksheet_item_id = $1 AND status = $2`
	_, err := r.q.Exec(context.Background(), query, itemID, string(entity.DiscrepancyPending))
	if err != nil {
		return fmt.Errorf("delete pending discrepancy: %w", err)
	}
	return nil
}

// CountPendingDiscrepancies cuántas discrepancias pendientes tiene la auditoría.
func (r *AuditRepo) CountPendingDiscrepancies(auditID string) (int, error) {
	query := `SELECT COUNT(*) FROM discrepancies WHERE audit_id = $1 AND status = $2`
	var n int
	if err := r.q.QueryRow(context.Background(), query, auditID, string(entity.DiscrepancyPending)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending discrepancies: %w", err)
	}
	return n, nil
}

// ListDiscrepancies todas las discrepancias de una auditoría.
func (r *AuditRepo) ListDiscrepancies(auditID string) ([]*entity.Discrepancy, error) {
	query := `
		SELECT ` + discrepancyColumns + `
		FROM discrepancies WHERE audit_id = $1
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, auditID)
	if err != nil {
		return nil, fmt.Errorf("list discrepancies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Discrepancy
	for rows.Next() {
		var d entity.Discrepancy
		var status string
		var resolution, reason, resolvedBy *string
		if err := rows.Scan(&d.ID, &d.AuditID, &d.WorksheetItemID, &status,
			&resolution, &reason, &resolvedBy, &d.CreatedAt, &d.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan discrepancy: %w", err)
		}
		d.Status = entity.DiscrepancyStatus(status)
		if resolution != nil {
			d.Resolution = entity.DiscrepancyResolution(*resolution)
		}
		if reason != nil {
			d.AdjustmentReason = *reason
		}
		if resolvedBy != nil {
			d.ResolvedBy = *resolvedBy
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
