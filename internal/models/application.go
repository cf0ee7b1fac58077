package models

import "time"

// Application states.
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"
)

// Application is a student's request to join a project.
type Application struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"not null;index:idx_app_project_student,unique" json:"project_id"`
	StudentID   string     `gorm:"size:64;not null;index:idx_app_project_student,unique" json:"student_id"`
	StudentName string     `gorm:"size:255" json:"student_name"`
	Statement   string     `gorm:"type:text" json:"statement"`
	Status      string     `gorm:"size:32;not null;default:pending;index" json:"status"`
	DecidedBy   string     `gorm:"size:64" json:"decided_by,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Project Project `json:"-"`
}

// IsDecided reports whether the application reached a terminal state.
func (a Application) IsDecided() bool {
	return a.Status != ApplicationStatusPending
}
