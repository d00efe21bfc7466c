package repository

import "github.com/lechibang-1512/stockguard-api/internal/domain/entity"

// CustodyRepository puerto para ítems bajo custodia, sus traslados y las
// solicitudes de aprobación. Los Get* devuelven (nil, nil) si no existe.
type CustodyRepository interface {
	CreateItem(item *entity.CustodyItem) error
	GetItem(id string) (*entity.CustodyItem, error)
	// GetItemForUpdate bloquea la fila del ítem para el cambio de custodia.
	GetItemForUpdate(id string) (*entity.CustodyItem, error)
	UpdateItem(item *entity.CustodyItem) error

	CreateTransfer(transfer *entity.CustodyTransfer) error
	UpdateTransfer(transfer *entity.CustodyTransfer) error
	// GetLatestUnacknowledged traslado más reciente del ítem sin acuse de recibo.
	GetLatestUnacknowledged(itemID string) (*entity.CustodyTransfer, error)
	ListTransfers(itemID string) ([]*entity.CustodyTransfer, error)

	CreateApproval(request *entity.ApprovalRequest) error
	GetApprovalForUpdate(id string) (*entity.ApprovalRequest, error)
	UpdateApproval(request *entity.ApprovalRequest) error
	ListPendingApprovals(limit, offset int) ([]*entity.ApprovalRequest, error)
}
