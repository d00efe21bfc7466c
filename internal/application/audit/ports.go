package audit

import (
	"context"

	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del flujo de auditoría atados a esa tx. Toda transición
// multi-paso (conteo, resolución, cierre, aprobación) es todo-o-nada.
type TxRunner interface {
	RunAudit(ctx context.Context, fn func(
		auditRepo repository.AuditRepository,
		productRepo repository.ProductRepository,
		stockRepo repository.LocationStockRepository,
		movRepo repository.StockMovementRepository,
		logRepo repository.AuditLogRepository,
	) error) error
}
