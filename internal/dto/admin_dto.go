package dto

import (
	"time"

	"github.com/noah-isme/projecthub-api/internal/models"
)

// ModerationRequest captures the reason accompanying a moderation action.
type ModerationRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=512"`
}

// AuditListRequest defines filters for listing audit entries.
type AuditListRequest struct {
	Page       int
	PageSize   int
	ActorID    string
	Action     string
	EntityType string
	ScopeID    string
}

// AuditEntryResponse serializes an audit trail row.
type AuditEntryResponse struct {
	ID         uint                   `json:"id"`
	ActorID    string                 `json:"actor_id"`
	ActorName  string                 `json:"actor_name"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id,omitempty"`
	OldValues  map[string]interface{} `json:"old_values,omitempty"`
	NewValues  map[string]interface{} `json:"new_values,omitempty"`
	Reason     string                 `json:"reason,omitempty"`
	ScopeID    string                 `json:"scope_id,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewAuditEntryResponse converts an audit log model into a DTO.
func NewAuditEntryResponse(entry models.AuditLog) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorName:  entry.ActorName,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		OldValues:  entry.OldValues,
		NewValues:  entry.NewValues,
		Reason:     entry.Reason,
		ScopeID:    entry.ScopeID,
		CreatedAt:  entry.CreatedAt,
	}
}

// NewAuditEntryResponses maps a slice of audit log models.
func NewAuditEntryResponses(entries []models.AuditLog) []AuditEntryResponse {
	items := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, NewAuditEntryResponse(entry))
	}
	return items
}
