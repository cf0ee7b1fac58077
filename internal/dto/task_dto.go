package dto

import (
	"time"

	"github.com/noah-isme/projecthub-api/internal/models"
)

// TaskCreateRequest captures a new task payload.
type TaskCreateRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"max=10000"`
	AssigneeID  string     `json:"assignee_id" validate:"omitempty,max=64"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskUpdateRequest captures partial update payloads for tasks.
type TaskUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeID  *string    `json:"assignee_id" validate:"omitempty,max=64"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskResponse serializes task data.
type TaskResponse struct {
	ID          uint       `json:"id"`
	ProjectID   uint       `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Overdue     bool       `json:"overdue"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTaskResponse converts a task model into a DTO.
func NewTaskResponse(task models.Task, reference time.Time) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		AssigneeID:  task.AssigneeID,
		DueDate:     task.DueDate,
		Overdue:     task.IsPastDue(reference),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// NewTaskResponses maps a slice of task models.
func NewTaskResponses(tasks []models.Task, reference time.Time) []TaskResponse {
	items := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, NewTaskResponse(task, reference))
	}
	return items
}
