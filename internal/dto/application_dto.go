package dto

import (
	"time"

	"github.com/noah-isme/projecthub-api/internal/models"
)

// ApplicationCreateRequest captures a student's application payload.
type ApplicationCreateRequest struct {
	ProjectID uint   `json:"project_id" validate:"required"`
	Statement string `json:"statement" validate:"max=5000"`
}

// ApplicationDecisionRequest captures an accept/reject decision.
type ApplicationDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
	Reason string `json:"reason" validate:"max=512"`
}

// ApplicationListRequest defines filters for listing applications.
type ApplicationListRequest struct {
	Page      int
	PageSize  int
	ProjectID *uint
	Status    string
}

// ApplicationResponse serializes application data.
type ApplicationResponse struct {
	ID          uint       `json:"id"`
	ProjectID   uint       `json:"project_id"`
	StudentID   string     `json:"student_id"`
	StudentName string     `json:"student_name"`
	Statement   string     `json:"statement"`
	Status      string     `json:"status"`
	DecidedBy   string     `json:"decided_by,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewApplicationResponse converts an application model into a DTO.
func NewApplicationResponse(application models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          application.ID,
		ProjectID:   application.ProjectID,
		StudentID:   application.StudentID,
		StudentName: application.StudentName,
		Statement:   application.Statement,
		Status:      application.Status,
		DecidedBy:   application.DecidedBy,
		DecidedAt:   application.DecidedAt,
		CreatedAt:   application.CreatedAt,
	}
}

// NewApplicationResponses maps a slice of application models.
func NewApplicationResponses(applications []models.Application) []ApplicationResponse {
	items := make([]ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		items = append(items, NewApplicationResponse(application))
	}
	return items
}
