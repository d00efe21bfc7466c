package entity

import (
	"encoding/json"
	"time"
)

// AuditLogEntry entrada inmutable de bitácora. Toda operación que cambia
// estado en los flujos de auditoría y custodia agrega una; la bitácora es
// solo-aditiva y nunca se reescribe.
type AuditLogEntry struct {
	ID         string
	ActorID    string
	ActorRole  Role
	Action     string // audit.create, custody.transfer, ...
	EntityType string
	EntityID   string
	Details    json.RawMessage
	CreatedAt  time.Time
}
