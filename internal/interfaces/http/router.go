package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lechibang-1512/stockguard-api/internal/application/audit"
	"github.com/lechibang-1512/stockguard-api/internal/application/batch"
	"github.com/lechibang-1512/stockguard-api/internal/application/custody"
	"github.com/lechibang-1512/stockguard-api/internal/application/ledger"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// RouterDeps dependencias para el router. Los repos son lecturas sobre el
// pool (fuera de transacción); las mutaciones pasan por los casos de uso.
type RouterDeps struct {
	StockUC      *ledger.StockUseCase
	ConsumeUC    *batch.ConsumeUseCase
	AuditUC      *audit.WorkflowUseCase
	CustodyUC    *custody.WorkflowUseCase
	MovementRepo repository.StockMovementRepository
	AuditRepo    repository.AuditRepository
	CustodyRepo  repository.CustodyRepository
	LogRepo      repository.AuditLogRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Libro mayor (protegido; vender lo puede hacer también el rol sales)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.MovementRepo)
	stock.Post("/receive", RequireRole("admin", "warehouse"), stockHandler.Receive)
	stock.Post("/sell", RequireRole("admin", "warehouse", "sales"), stockHandler.Sell)
	stock.Post("/transfer", RequireRole("admin", "warehouse"), stockHandler.Transfer)
	stock.Get("/movements", stockHandler.ListMovements)

	// Lotes (protegido)
	batches := protected.Group("/batches", RequireRole("admin", "warehouse"))
	batchHandler := NewBatchHandler(deps.ConsumeUC)
	batches.Post("/consume", batchHandler.Consume)

	// Auditorías (protegido; la aprobación exige admin también en el caso de uso)
	audits := protected.Group("/audits", RequireRole("admin", "warehouse"))
	auditHandler := NewAuditHandler(deps.AuditUC, deps.AuditRepo)
	audits.Post("/", auditHandler.Create)
	audits.Post("/:id/counts", auditHandler.RecordCount)
	audits.Post("/:id/complete", auditHandler.Complete)
	audits.Post("/:id/approve", auditHandler.Approve)
	audits.Get("/:id/discrepancies", auditHandler.ListDiscrepancies)
	protected.Post("/discrepancies/:id/resolve", RequireRole("admin", "warehouse"), auditHandler.ResolveDiscrepancy)

	// Custodia (protegido; el acuse de recibo es de cualquier rol autenticado)
	custodyGroup := protected.Group("/custody")
	custodyHandler := NewCustodyHandler(deps.CustodyUC, deps.CustodyRepo, deps.LogRepo)
	custodyGroup.Post("/items", RequireRole("admin", "warehouse"), custodyHandler.RegisterItem)
	custodyGroup.Post("/items/:id/transfer", custodyHandler.RequestTransfer)
	custodyGroup.Post("/items/:id/acknowledge", custodyHandler.Acknowledge)
	custodyGroup.Get("/items/:id/transfers", custodyHandler.ListTransfers)
	custodyGroup.Get("/items/:id/log", custodyHandler.ListLog)
	custodyGroup.Get("/approvals", RequireRole("admin"), custodyHandler.ListPendingApprovals)
	custodyGroup.Post("/approvals/:id/approve", RequireRole("admin"), custodyHandler.ApproveTransfer)
	custodyGroup.Post("/approvals/:id/reject", RequireRole("admin"), custodyHandler.RejectTransfer)
}
