package models

import "time"

// Attachment is a file uploaded against a project or one of its tasks.
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	TaskID      *uint     `gorm:"index" json:"task_id,omitempty"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	FileURL     string    `gorm:"size:512;not null" json:"file_url"`
	ContentType string    `gorm:"size:128;not null" json:"content_type"`
	SizeBytes   int64     `gorm:"not null" json:"size_bytes"`
	Checksum    string    `gorm:"size:64" json:"checksum"`
	UploadedBy  string    `gorm:"size:64;not null;index" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`

	Project Project `json:"-"`
}
