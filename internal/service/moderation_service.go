package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/projecthub-api/internal/apperr"
	"github.com/noah-isme/projecthub-api/internal/authz"
	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/models"
	"github.com/noah-isme/projecthub-api/internal/observability"
	"github.com/noah-isme/projecthub-api/internal/repository"
)

// ModerationService performs scope-checked admin actions against projects and
// comments. Every successful mutation leaves a best-effort audit entry; a
// denied action leaves none, since authorization fails before the action.
type ModerationService interface {
	FlagProject(ctx context.Context, identity *authz.Identity, projectID uint, req dto.ModerationRequest) (dto.ProjectResponse, error)
	UnflagProject(ctx context.Context, identity *authz.Identity, projectID uint, req dto.ModerationRequest) (dto.ProjectResponse, error)
	ArchiveProject(ctx context.Context, identity *authz.Identity, projectID uint, req dto.ModerationRequest) (dto.ProjectResponse, error)
	RemoveComment(ctx context.Context, identity *authz.Identity, commentID uint, req dto.ModerationRequest) error
}

type moderationService struct {
	projects  repository.ProjectRepository
	comments  repository.CommentRepository
	audit     AuditRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewModerationService constructs the moderation service.
func NewModerationService(projects repository.ProjectRepository, comments repository.CommentRepository, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) ModerationService {
	return &moderationService{
		projects:  projects,
		comments:  comments,
		audit:     audit,
		validator: validate,
		logger:    logger.With().Str("component", "moderation_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/projecthub-api/internal/service/moderation"),
	}
}

func (s *moderationService) FlagProject(ctx context.Context, identity *authz.Identity, projectID uint, req dto.ModerationRequest) (dto.ProjectResponse, error) {
	return s.setProjectFlag(ctx, identity, projectID, req, true, "flag_project")
}

func (s *moderationService) UnflagProject(ctx context.Context, identity *authz.Identity, projectID uint, req dto.ModerationRequest) (dto.ProjectResponse, error) {
	return s.setProjectFlag(ctx, identity, projectID, req, false, "unflag_project")
}

func (s *moderationService) setProjectFlag(ctx context.Context, identity *authz.Identity, projectID uint, req dto.ModerationRequest, flagged bool, action string) (dto.ProjectResponse, error) {
	ctx, span := s.tracer.Start(ctx, "moderation."+action)
	defer span.End()
	span.SetAttributes(attribute.Int("moderation.project_id", int(projectID)))

	project, err := s.authorizeProjectAction(ctx, identity, projectID, req, action, span)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	oldValues := map[string]interface{}{"flagged": project.Flagged, "flag_reason": project.FlagReason}

	project.Flagged = flagged
	if flagged {
		project.FlagReason = strings.TrimSpace(req.Reason)
	} else {
		project.FlagReason = ""
	}

	if err := s.projects.Update(ctx, &project); err != nil {
		observability.ModerationActions().WithLabelValues(action, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.ProjectResponse{}, err
	}

	s.recordProjectAudit(ctx, identity, project, action, req.Reason, oldValues, map[string]interface{}{
		"flagged":     project.Flagged,
		"flag_reason": project.FlagReason,
	})

	observability.ModerationActions().WithLabelValues(action, "ok").Inc()
	span.SetStatus(codes.Ok, "applied")
	return dto.NewProjectResponse(project), nil
}

func (s *moderationService) ArchiveProject(ctx context.Context, identity *authz.Identity, projectID uint, req dto.ModerationRequest) (dto.ProjectResponse, error) {
	const action = "archive_project"

	ctx, span := s.tracer.Start(ctx, "moderation.archive_project")
	defer span.End()
	span.SetAttributes(attribute.Int("moderation.project_id", int(projectID)))

	project, err := s.authorizeProjectAction(ctx, identity, projectID, req, action, span)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	oldValues := map[string]interface{}{"status": project.Status}
	project.Status = models.ProjectStatusArchived

	if err := s.projects.Update(ctx, &project); err != nil {
		observability.ModerationActions().WithLabelValues(action, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.ProjectResponse{}, err
	}

	s.recordProjectAudit(ctx, identity, project, action, req.Reason, oldValues, map[string]interface{}{
		"status": project.Status,
	})

	observability.ModerationActions().WithLabelValues(action, "ok").Inc()
	span.SetStatus(codes.Ok, "applied")
	return dto.NewProjectResponse(project), nil
}

func (s *moderationService) RemoveComment(ctx context.Context, identity *authz.Identity, commentID uint, req dto.ModerationRequest) error {
	const action = "remove_comment"

	ctx, span := s.tracer.Start(ctx, "moderation.remove_comment")
	defer span.End()
	span.SetAttributes(attribute.Int("moderation.comment_id", int(commentID)))

	if err := authz.RequireDeptAdmin(identity); err != nil {
		observability.ModerationActions().WithLabelValues(action, "denied").Inc()
		span.SetStatus(codes.Error, "authorization failed")
		return err
	}

	if err := s.validator.Struct(req); err != nil {
		return err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	project, err := s.projects.GetByID(ctx, comment.ProjectID)
	if err != nil {
		return err
	}

	if !identity.CanAccessDepartment(project.CollegeID, project.Department) {
		observability.ModerationActions().WithLabelValues(action, "denied").Inc()
		span.SetStatus(codes.Error, "scope denied")
		return apperr.Forbidden("comment outside admin scope")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		observability.ModerationActions().WithLabelValues(action, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return err
	}

	entityID := comment.ID
	s.audit.Record(ctx, AuditEntry{
		ActorID:    identity.Subject,
		ActorName:  identity.Name,
		Action:     action,
		EntityType: "comment",
		EntityID:   &entityID,
		OldValues:  map[string]interface{}{"body": comment.Body, "author_id": comment.AuthorID},
		Reason:     req.Reason,
		ScopeID:    project.CollegeID,
	})

	observability.ModerationActions().WithLabelValues(action, "ok").Inc()
	span.SetStatus(codes.Ok, "applied")
	return nil
}

// authorizeProjectAction runs the gate, validation and scope check shared by
// every project-level moderation action. Denials happen before any mutation
// or audit write.
func (s *moderationService) authorizeProjectAction(ctx context.Context, identity *authz.Identity, projectID uint, req dto.ModerationRequest, action string, span trace.Span) (models.Project, error) {
	if err := authz.RequireDeptAdmin(identity); err != nil {
		observability.ModerationActions().WithLabelValues(action, "denied").Inc()
		span.SetStatus(codes.Error, "authorization failed")
		return models.Project{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return models.Project{}, err
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, ErrProjectNotFound
		}
		return models.Project{}, err
	}

	if !identity.CanAccessDepartment(project.CollegeID, project.Department) {
		observability.ModerationActions().WithLabelValues(action, "denied").Inc()
		span.SetStatus(codes.Error, "scope denied")
		return models.Project{}, apperr.Forbidden("project outside admin scope")
	}

	return project, nil
}

func (s *moderationService) recordProjectAudit(ctx context.Context, identity *authz.Identity, project models.Project, action, reason string, oldValues, newValues map[string]interface{}) {
	entityID := project.ID
	s.audit.Record(ctx, AuditEntry{
		ActorID:    identity.Subject,
		ActorName:  identity.Name,
		Action:     action,
		EntityType: "project",
		EntityID:   &entityID,
		OldValues:  oldValues,
		NewValues:  newValues,
		Reason:     reason,
		ScopeID:    project.CollegeID,
	})
}
