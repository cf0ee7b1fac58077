package models

import (
	"time"

	"gorm.io/gorm"
)

// Project lifecycle states.
const (
	ProjectStatusDraft      = "draft"
	ProjectStatusOpen       = "open"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusArchived   = "archived"
)

// Project represents a supervised academic project students can apply to.
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"size:32;not null;default:draft;index" json:"status"`
	CollegeID   string         `gorm:"size:64;not null;index" json:"college_id"`
	Department  string         `gorm:"size:64;not null;index" json:"department"`
	OwnerID     string         `gorm:"size:64;not null;index" json:"owner_id"`
	OwnerName   string         `gorm:"size:255" json:"owner_name"`
	Capacity    int            `gorm:"not null;default:1" json:"capacity"`
	Flagged     bool           `gorm:"not null;default:false;index" json:"flagged"`
	FlagReason  string         `gorm:"size:512" json:"flag_reason,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Applications []Application `json:"-"`
	Tasks        []Task        `json:"-"`
}

// IsOpen reports whether the project accepts new applications.
func (p Project) IsOpen() bool {
	return p.Status == ProjectStatusOpen && !p.Flagged
}
