package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog captures moderation actions performed by admins. Writes are
// best-effort; a failed audit insert never blocks the primary operation.
type AuditLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    string            `gorm:"size:64;not null;index" json:"actor_id"`
	ActorName  string            `gorm:"size:255" json:"actor_name"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:64;not null;index" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	OldValues  datatypes.JSONMap `gorm:"type:json" json:"old_values,omitempty"`
	NewValues  datatypes.JSONMap `gorm:"type:json" json:"new_values,omitempty"`
	Reason     string            `gorm:"size:512" json:"reason,omitempty"`
	ScopeID    string            `gorm:"size:64;index" json:"scope_id,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
