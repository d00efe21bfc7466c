package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora inmutable sobre PostgreSQL. Solo INSERT y SELECT;
// no existen UPDATE ni DELETE sobre esta tabla.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Append agrega una entrada a la bitácora.
func (r *AuditLogRepo) Append(entry *entity.AuditLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_log (id, actor_id, actor_role, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ActorID, string(entry.ActorRole), entry.Action,
		entry.EntityType, entry.EntityID, entry.Details, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

// ListByEntity entradas de bitácora de una entidad, más recientes primero.
func (r *AuditLogRepo) ListByEntity(entityType, entityID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, actor_id, actor_role, action, entity_type, entity_id, details, created_at
		FROM audit_log WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, entityType, entityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		var role string
		if err := rows.Scan(&e.ID, &e.ActorID, &role, &e.Action, &e.EntityType, &e.EntityID,
			&e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		e.ActorRole = entity.Role(role)
		list = append(list, &e)
	}
	return list, rows.Err()
}
