package custody

import (
	"context"

	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del flujo de custodia atados a esa tx.
type TxRunner interface {
	RunCustody(ctx context.Context, fn func(
		custodyRepo repository.CustodyRepository,
		productRepo repository.ProductRepository,
		logRepo repository.AuditLogRepository,
	) error) error
}
