package models

import "time"

// Task states.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task is a unit of work inside a project.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:32;not null;default:todo;index" json:"status"`
	AssigneeID  string     `gorm:"size:64;index" json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Project Project `json:"-"`
}

// IsPastDue reports whether the task deadline has already passed.
func (t Task) IsPastDue(reference time.Time) bool {
	return t.DueDate != nil && reference.After(*t.DueDate) && t.Status != TaskStatusDone
}
