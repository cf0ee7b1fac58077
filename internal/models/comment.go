package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a discussion entry on a project or one of its tasks. Bodies are
// sanitized before persistence.
type Comment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProjectID  uint           `gorm:"not null;index" json:"project_id"`
	TaskID     *uint          `gorm:"index" json:"task_id,omitempty"`
	AuthorID   string         `gorm:"size:64;not null;index" json:"author_id"`
	AuthorName string         `gorm:"size:255" json:"author_name"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Project Project `json:"-"`
}
