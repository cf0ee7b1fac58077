package dto

import (
	"time"

	"github.com/noah-isme/projecthub-api/internal/models"
)

// ProjectCreateRequest captures the payload for creating a project.
type ProjectCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=10000"`
	CollegeID   string `json:"college_id" validate:"required,max=64"`
	Department  string `json:"department" validate:"required,max=64"`
	Capacity    int    `json:"capacity" validate:"omitempty,min=1,max=100"`
}

// ProjectUpdateRequest captures partial update payloads for projects.
type ProjectUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Status      *string `json:"status" validate:"omitempty,oneof=draft open in_progress completed archived"`
	Capacity    *int    `json:"capacity" validate:"omitempty,min=1,max=100"`
}

// ProjectListRequest defines filters for listing projects.
type ProjectListRequest struct {
	Page     int
	PageSize int
	Status   string
	Search   string
}

// ProjectResponse serializes project data.
type ProjectResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CollegeID   string    `json:"college_id"`
	Department  string    `json:"department"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	Capacity    int       `json:"capacity"`
	Flagged     bool      `json:"flagged"`
	FlagReason  string    `json:"flag_reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProjectResponse converts a project model into a DTO.
func NewProjectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Status:      project.Status,
		CollegeID:   project.CollegeID,
		Department:  project.Department,
		OwnerID:     project.OwnerID,
		OwnerName:   project.OwnerName,
		Capacity:    project.Capacity,
		Flagged:     project.Flagged,
		FlagReason:  project.FlagReason,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// NewProjectResponses maps a slice of project models.
func NewProjectResponses(projects []models.Project) []ProjectResponse {
	items := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		items = append(items, NewProjectResponse(project))
	}
	return items
}
