package dto

import "github.com/shopspring/decimal"

// CreateAuditRequest body para POST /api/audits.
type CreateAuditRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Zone        string `json:"zone,omitempty"` // vacío = toda la bodega
	Type        string `json:"type,omitempty"` // cycle_count (default), full_count
}

// AuditSessionDTO sesión de auditoría en respuestas.
type AuditSessionDTO struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouse_id"`
	Zone        string `json:"zone,omitempty"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	ApprovedBy  string `json:"approved_by,omitempty"`
	ApprovedAt  string `json:"approved_at,omitempty"`
}

// WorksheetItemDTO ítem de hoja de conteo en respuestas.
type WorksheetItemDTO struct {
	ID          string           `json:"id"`
	AuditID     string           `json:"audit_id"`
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	Zone        string           `json:"zone,omitempty"`
	SystemQty   decimal.Decimal  `json:"system_qty"`
	CountedQty  *decimal.Decimal `json:"counted_qty,omitempty"`
	Variance    decimal.Decimal  `json:"variance"`
	CountedBy   string           `json:"counted_by,omitempty"`
	CountedAt   string           `json:"counted_at,omitempty"`
}

// RecordCountRequest body para POST /api/audits/:id/counts.
type RecordCountRequest struct {
	ItemID     string          `json:"item_id" validate:"required"`
	CountedQty decimal.Decimal `json:"counted_qty"`
}

// ResolveDiscrepancyRequest body para POST /api/discrepancies/:id/resolve.
// reason es obligatorio cuando resolution es adjust.
type ResolveDiscrepancyRequest struct {
	Resolution string `json:"resolution" validate:"required,oneof=adjust accept_system"`
	Reason     string `json:"reason,omitempty"`
}

// DiscrepancyDTO discrepancia en respuestas.
type DiscrepancyDTO struct {
	ID               string `json:"id"`
	AuditID          string `json:"audit_id"`
	WorksheetItemID  string `json:"worksheet_item_id"`
	Status           string `json:"status"`
	Resolution       string `json:"resolution,omitempty"`
	AdjustmentReason string `json:"adjustment_reason,omitempty"`
	ResolvedBy       string `json:"resolved_by,omitempty"`
	ResolvedAt       string `json:"resolved_at,omitempty"`
	CreatedAt        string `json:"created_at"`
}
