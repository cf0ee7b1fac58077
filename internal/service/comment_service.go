package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/projecthub-api/internal/apperr"
	"github.com/noah-isme/projecthub-api/internal/authz"
	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/models"
	"github.com/noah-isme/projecthub-api/internal/repository"
)

var (
	// ErrCommentNotFound indicates the comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrCommentEmpty indicates the sanitized comment has no content left.
	ErrCommentEmpty = errors.New("comment body is empty after sanitization")
)

// CommentService manages project discussion entries.
type CommentService interface {
	Create(ctx context.Context, identity *authz.Identity, projectID uint, req dto.CommentCreateRequest) (dto.CommentResponse, error)
	List(ctx context.Context, projectID uint, page, pageSize int) ([]dto.CommentResponse, int64, error)
	Delete(ctx context.Context, identity *authz.Identity, id uint) error
}

type commentService struct {
	comments  repository.CommentRepository
	projects  repository.ProjectRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCommentService constructs the comment service. Bodies pass through a
// strict sanitizer before persistence.
func NewCommentService(comments repository.CommentRepository, projects repository.ProjectRepository, validate *validator.Validate, logger zerolog.Logger) CommentService {
	return &commentService{
		comments:  comments,
		projects:  projects,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "comment_service").Logger(),
	}
}

func (s *commentService) Create(ctx context.Context, identity *authz.Identity, projectID uint, req dto.CommentCreateRequest) (dto.CommentResponse, error) {
	if identity == nil {
		return dto.CommentResponse{}, apperr.Unauthenticated("authentication required")
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.CommentResponse{}, err
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CommentResponse{}, ErrProjectNotFound
		}
		return dto.CommentResponse{}, err
	}

	body := strings.TrimSpace(s.sanitizer.Sanitize(req.Body))
	if body == "" {
		return dto.CommentResponse{}, ErrCommentEmpty
	}

	comment := models.Comment{
		ProjectID:  projectID,
		TaskID:     req.TaskID,
		AuthorID:   identity.Subject,
		AuthorName: identity.Name,
		Body:       body,
	}

	if err := s.comments.Create(ctx, &comment); err != nil {
		s.logger.Error().Err(err).Uint("project_id", projectID).Msg("failed to create comment")
		return dto.CommentResponse{}, err
	}

	return dto.NewCommentResponse(comment), nil
}

func (s *commentService) List(ctx context.Context, projectID uint, page, pageSize int) ([]dto.CommentResponse, int64, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProjectNotFound
		}
		return nil, 0, err
	}

	comments, total, err := s.comments.List(ctx, repository.CommentFilter{
		Page:      page,
		PageSize:  pageSize,
		ProjectID: &projectID,
	})
	if err != nil {
		return nil, 0, err
	}

	return dto.NewCommentResponses(comments), total, nil
}

// Delete removes a comment. Authors may delete their own; admins may delete
// any comment inside their scope.
func (s *commentService) Delete(ctx context.Context, identity *authz.Identity, id uint) error {
	if identity == nil {
		return apperr.Unauthenticated("authentication required")
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.AuthorID != identity.Subject {
		project, err := s.projects.GetByID(ctx, comment.ProjectID)
		if err != nil {
			return err
		}
		if !identity.IsAdminFor(project.CollegeID, project.Department) {
			return apperr.Forbidden("not allowed to delete this comment")
		}
	}

	return s.comments.Delete(ctx, id)
}
