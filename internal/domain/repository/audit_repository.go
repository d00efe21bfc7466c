package repository

import "github.com/lechibang-1512/stockguard-api/internal/domain/entity"

// AuditRepository puerto para sesiones de auditoría física, sus ítems de
// hoja de conteo y las discrepancias derivadas. Los Get* devuelven
// (nil, nil) cuando no existe la fila.
type AuditRepository interface {
	CreateSession(session *entity.AuditSession) error
	GetSession(id string) (*entity.AuditSession, error)
	// GetSessionForUpdate bloquea la sesión para transiciones de estado.
	GetSessionForUpdate(id string) (*entity.AuditSession, error)
	UpdateSession(session *entity.AuditSession) error

	CreateItems(items []*entity.WorksheetItem) error
	GetItem(id string) (*entity.WorksheetItem, error)
	UpdateItem(item *entity.WorksheetItem) error
	ListItems(auditID string) ([]*entity.WorksheetItem, error)
	// CountUncounted cuántos ítems siguen sin CountedQty.
	CountUncounted(auditID string) (int, error)

	CreateDiscrepancy(d *entity.Discrepancy) error
	GetDiscrepancyForUpdate(id string) (*entity.Discrepancy, error)
	UpdateDiscrepancy(d *entity.Discrepancy) error
	// GetPendingDiscrepancyByItem discrepancia pendiente de un ítem, si la hay.
	GetPendingDiscrepancyByItem(itemID string) (*entity.Discrepancy, error)
	// DeletePendingDiscrepancyByItem elimina la discrepancia pendiente de un
	// ítem (un reconteo la re-deriva de la nueva varianza).
	DeletePendingDiscrepancyByItem(itemID string) error
	CountPendingDiscrepancies(auditID string) (int, error)
	ListDiscrepancies(auditID string) ([]*entity.Discrepancy, error)
}
