package dto

import (
	"time"

	"github.com/noah-isme/projecthub-api/internal/models"
)

// CommentCreateRequest captures a new comment payload.
type CommentCreateRequest struct {
	TaskID *uint  `json:"task_id"`
	Body   string `json:"body" validate:"required,min=1,max=5000"`
}

// CommentResponse serializes comment data.
type CommentResponse struct {
	ID         uint      `json:"id"`
	ProjectID  uint      `json:"project_id"`
	TaskID     *uint     `json:"task_id,omitempty"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewCommentResponse converts a comment model into a DTO.
func NewCommentResponse(comment models.Comment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		ProjectID:  comment.ProjectID,
		TaskID:     comment.TaskID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt,
	}
}

// NewCommentResponses maps a slice of comment models.
func NewCommentResponses(comments []models.Comment) []CommentResponse {
	items := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, NewCommentResponse(comment))
	}
	return items
}
