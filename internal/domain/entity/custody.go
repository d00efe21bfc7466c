package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustodyStatus estado de un ítem de alto valor bajo custodia.
type CustodyStatus string

const (
	CustodyInStorage CustodyStatus = "in_storage"
	CustodyInTransit CustodyStatus = "in_transit"
	CustodyAssigned  CustodyStatus = "assigned"
)

// Valid indica si el estado es uno de los definidos.
func (s CustodyStatus) Valid() bool {
	switch s {
	case CustodyInStorage, CustodyInTransit, CustodyAssigned:
		return true
	}
	return false
}

// CanTransitionTo valida la transición de estado del ítem.
// in_storage/assigned -> in_transit (traslado); in_transit -> in_storage
// o assigned (acuse de recibo).
func (s CustodyStatus) CanTransitionTo(next CustodyStatus) bool {
	switch s {
	case CustodyInStorage, CustodyAssigned:
		return next == CustodyInTransit
	case CustodyInTransit:
		return next == CustodyInStorage || next == CustodyAssigned
	}
	return false
}

// CustodyItem instancia de alto valor ligada a un producto, con custodio
// actual. Su valor monetario se deriva del precio del producto al momento
// de cada operación, no se almacena congelado.
type CustodyItem struct {
	ID           string
	ProductID    string
	SerialNumber string
	Custodian    string // user id del custodio actual
	Status       CustodyStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CustodyTransfer registro inmutable de una entrega de custodia.
// Assignment marca que el destino es una asignación a persona: el acuse
// de recibo deja el ítem en assigned en lugar de in_storage.
type CustodyTransfer struct {
	ID             string
	ItemID         string
	FromCustodian  string
	ToCustodian    string
	Reason         string
	Assignment     bool
	AuthorizedBy   string
	CreatedAt      time.Time
	AcknowledgedAt *time.Time
}

// ApprovalStatus estado de una solicitud de aprobación de traslado.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid indica si el estado es uno de los definidos.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// ApprovalRequest solicitud pendiente de visto bueno administrativo para un
// traslado de custodia cuyo valor alcanza el umbral configurado (o que el
// solicitante pidió someter a aprobación). Aprobarla ejecuta exactamente el
// mismo cambio de estado que un traslado directo habría ejecutado.
type ApprovalRequest struct {
	ID          string
	ItemID      string
	ToCustodian string
	Reason      string
	Assignment  bool
	ItemValue   decimal.Decimal // valor al momento de la solicitud, informativo
	Status      ApprovalStatus
	RequestedBy string
	ApprovedBy  string
	Notes       string
	CreatedAt   time.Time
	DecidedAt   *time.Time
}
