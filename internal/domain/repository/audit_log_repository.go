package repository

import "github.com/lechibang-1512/stockguard-api/internal/domain/entity"

// AuditLogRepository puerto de la bitácora inmutable. Solo inserta y lee;
// no existe actualización ni borrado.
type AuditLogRepository interface {
	Append(entry *entity.AuditLogEntry) error
	ListByEntity(entityType, entityID string, limit, offset int) ([]*entity.AuditLogEntry, error)
}
