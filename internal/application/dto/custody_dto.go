package dto

import "github.com/shopspring/decimal"

// RegisterCustodyItemRequest body para POST /api/custody/items.
type RegisterCustodyItemRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	SerialNumber string `json:"serial_number" validate:"required"`
	Custodian    string `json:"custodian" validate:"required"`
}

// CustodyItemDTO ítem bajo custodia en respuestas.
type CustodyItemDTO struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	SerialNumber string `json:"serial_number"`
	Custodian    string `json:"custodian"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// RequestTransferRequest body para POST /api/custody/items/:id/transfer.
type RequestTransferRequest struct {
	ToCustodian     string `json:"to_custodian" validate:"required"`
	Reason          string `json:"reason" validate:"required"`
	Assignment      bool   `json:"assignment,omitempty"`       // asignación a persona (acuse -> assigned)
	RequireApproval bool   `json:"require_approval,omitempty"` // fuerza la compuerta aunque no alcance el umbral
}

// CustodyTransferDTO traslado de custodia en respuestas.
type CustodyTransferDTO struct {
	ID             string `json:"id"`
	ItemID         string `json:"item_id"`
	FromCustodian  string `json:"from_custodian"`
	ToCustodian    string `json:"to_custodian"`
	Reason         string `json:"reason"`
	Assignment     bool   `json:"assignment"`
	AuthorizedBy   string `json:"authorized_by"`
	CreatedAt      string `json:"created_at"`
	AcknowledgedAt string `json:"acknowledged_at,omitempty"`
}

// ApprovalRequestDTO solicitud de aprobación en respuestas.
type ApprovalRequestDTO struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	ToCustodian string          `json:"to_custodian"`
	Reason      string          `json:"reason"`
	Assignment  bool            `json:"assignment"`
	ItemValue   decimal.Decimal `json:"item_value"`
	Status      string          `json:"status"`
	RequestedBy string          `json:"requested_by"`
	ApprovedBy  string          `json:"approved_by,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   string          `json:"created_at"`
	DecidedAt   string          `json:"decided_at,omitempty"`
}

// TransferDecisionRequest body para approve/reject de una solicitud.
type TransferDecisionRequest struct {
	Notes string `json:"notes,omitempty"`
}

// TransferRequestResponse resultado de una solicitud de traslado: o quedó
// pendiente de aprobación o se ejecutó de inmediato.
type TransferRequestResponse struct {
	Approval *ApprovalRequestDTO `json:"approval,omitempty"`
	Transfer *CustodyTransferDTO `json:"transfer,omitempty"`
	Item     *CustodyItemDTO     `json:"item,omitempty"`
}
