package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditStatus estado de una sesión de auditoría física.
// Flujo de una sola vía: in_progress -> pending_approval -> completed.
type AuditStatus string

const (
	AuditInProgress      AuditStatus = "in_progress"
	AuditPendingApproval AuditStatus = "pending_approval"
	AuditCompleted       AuditStatus = "completed"
)

// Valid indica si el estado es uno de los definidos.
func (s AuditStatus) Valid() bool {
	switch s {
	case AuditInProgress, AuditPendingApproval, AuditCompleted:
		return true
	}
	return false
}

// CanTransitionTo valida la transición. No existe salto de etapa ni retroceso.
func (s AuditStatus) CanTransitionTo(next AuditStatus) bool {
	switch s {
	case AuditInProgress:
		return next == AuditPendingApproval
	case AuditPendingApproval:
		return next == AuditCompleted
	}
	return false
}

// DiscrepancyThreshold umbral de materialidad del 10%: una varianza cuyo
// valor absoluto supera estrictamente el 10% de la cantidad de sistema
// genera una discrepancia. Es una regla de negocio fija, no configurable.
var DiscrepancyThreshold = decimal.NewFromFloat(0.10)

// AuditSession sesión de conteo físico sobre una bodega (y zona opcional).
type AuditSession struct {
	ID          string
	WarehouseID string
	Zone        string // vacío = toda la bodega
	Type        string // cycle_count, full_count...
	Status      AuditStatus
	CreatedBy   string
	ApprovedBy  string
	CreatedAt   time.Time
	CompletedAt *time.Time
	ApprovedAt  *time.Time
}

// WorksheetItem snapshot de una (auditoría, producto, ubicación).
// SystemQty se copia de LocationStock al crear la auditoría; CountedQty
// queda nil hasta que alguien cuenta.
type WorksheetItem struct {
	ID          string
	AuditID     string
	ProductID   string
	WarehouseID string
	Zone        string
	SystemQty   decimal.Decimal
	CountedQty  *decimal.Decimal
	Variance    decimal.Decimal // contado - sistema
	CountedBy   string
	CountedAt   *time.Time
}

// ExceedsThreshold indica si la varianza supera el umbral de materialidad.
// El límite es exclusivo: exactamente 10% no genera discrepancia.
func (w *WorksheetItem) ExceedsThreshold() bool {
	return w.Variance.Abs().GreaterThan(w.SystemQty.Mul(DiscrepancyThreshold))
}

// DiscrepancyStatus estado de una discrepancia.
type DiscrepancyStatus string

const (
	DiscrepancyPending  DiscrepancyStatus = "pending"
	DiscrepancyResolved DiscrepancyStatus = "resolved"
)

// Valid indica si el estado es uno de los definidos.
func (s DiscrepancyStatus) Valid() bool {
	return s == DiscrepancyPending || s == DiscrepancyResolved
}

// DiscrepancyResolution forma de resolver una discrepancia.
type DiscrepancyResolution string

const (
	// ResolutionAdjust aplica la varianza como corrección al libro.
	ResolutionAdjust DiscrepancyResolution = "adjust"
	// ResolutionAcceptSystem descarta el conteo físico sin mutar el libro.
	ResolutionAcceptSystem DiscrepancyResolution = "accept_system"
)

// Valid indica si la resolución es una de las definidas.
func (r DiscrepancyResolution) Valid() bool {
	return r == ResolutionAdjust || r == ResolutionAcceptSystem
}

// Discrepancy varianza que superó el umbral de materialidad y exige
// resolución explícita antes de poder cerrar la auditoría.
type Discrepancy struct {
	ID               string
	AuditID          string
	WorksheetItemID  string
	Status           DiscrepancyStatus
	Resolution       DiscrepancyResolution
	AdjustmentReason string
	ResolvedBy       string
	CreatedAt        time.Time
	ResolvedAt       *time.Time
}
