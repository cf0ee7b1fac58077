package dto

import (
	"time"

	"github.com/noah-isme/projecthub-api/internal/models"
)

// AttachmentResponse serializes attachment metadata.
type AttachmentResponse struct {
	ID          uint      `json:"id"`
	ProjectID   uint      `json:"project_id"`
	TaskID      *uint     `json:"task_id,omitempty"`
	FileName    string    `json:"file_name"`
	FileURL     string    `json:"file_url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAttachmentResponse converts an attachment model into a DTO.
func NewAttachmentResponse(attachment models.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          attachment.ID,
		ProjectID:   attachment.ProjectID,
		TaskID:      attachment.TaskID,
		FileName:    attachment.FileName,
		FileURL:     attachment.FileURL,
		ContentType: attachment.ContentType,
		SizeBytes:   attachment.SizeBytes,
		UploadedBy:  attachment.UploadedBy,
		CreatedAt:   attachment.CreatedAt,
	}
}

// NewAttachmentResponses maps a slice of attachment models.
func NewAttachmentResponses(attachments []models.Attachment) []AttachmentResponse {
	items := make([]AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		items = append(items, NewAttachmentResponse(attachment))
	}
	return items
}
