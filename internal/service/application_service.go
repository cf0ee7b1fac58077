package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/projecthub-api/internal/apperr"
	"github.com/noah-isme/projecthub-api/internal/authz"
	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/models"
	"github.com/noah-isme/projecthub-api/internal/repository"
)

var (
	// ErrApplicationNotFound indicates the application does not exist.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrProjectNotOpen indicates the project does not accept applications.
	ErrProjectNotOpen = errors.New("project is not open for applications")
	// ErrProjectFull indicates the project reached its capacity.
	ErrProjectFull = errors.New("project has no remaining capacity")
	// ErrApplicationDecided indicates the application already reached a terminal state.
	ErrApplicationDecided = errors.New("application already decided")
)

// ApplicationService manages student applications to projects.
type ApplicationService interface {
	Apply(ctx context.Context, identity *authz.Identity, req dto.ApplicationCreateRequest) (dto.ApplicationResponse, error)
	Withdraw(ctx context.Context, identity *authz.Identity, id uint) (dto.ApplicationResponse, error)
	Decide(ctx context.Context, identity *authz.Identity, id uint, req dto.ApplicationDecisionRequest) (dto.ApplicationResponse, error)
	List(ctx context.Context, identity *authz.Identity, req dto.ApplicationListRequest) ([]dto.ApplicationResponse, int64, error)
}

type applicationService struct {
	applications repository.ApplicationRepository
	projects     repository.ProjectRepository
	validator    *validator.Validate
	logger       zerolog.Logger
	now          func() time.Time
}

// NewApplicationService constructs the application service.
func NewApplicationService(applications repository.ApplicationRepository, projects repository.ProjectRepository, validate *validator.Validate, logger zerolog.Logger) ApplicationService {
	return &applicationService{
		applications: applications,
		projects:     projects,
		validator:    validate,
		logger:       logger.With().Str("component", "application_service").Logger(),
		now:          time.Now,
	}
}

func (s *applicationService) Apply(ctx context.Context, identity *authz.Identity, req dto.ApplicationCreateRequest) (dto.ApplicationResponse, error) {
	if identity == nil {
		return dto.ApplicationResponse{}, apperr.Unauthenticated("authentication required")
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.ApplicationResponse{}, err
	}

	project, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrProjectNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	if !project.IsOpen() {
		return dto.ApplicationResponse{}, ErrProjectNotOpen
	}

	accepted, err := s.applications.CountAccepted(ctx, project.ID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	if accepted >= int64(project.Capacity) {
		return dto.ApplicationResponse{}, ErrProjectFull
	}

	application := models.Application{
		ProjectID:   project.ID,
		StudentID:   identity.Subject,
		StudentName: identity.Name,
		Statement:   strings.TrimSpace(req.Statement),
		Status:      models.ApplicationStatusPending,
	}

	if err := s.applications.Create(ctx, &application); err != nil {
		s.logger.Error().Err(err).Uint("project_id", project.ID).Msg("failed to create application")
		return dto.ApplicationResponse{}, err
	}

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) Withdraw(ctx context.Context, identity *authz.Identity, id uint) (dto.ApplicationResponse, error) {
	if identity == nil {
		return dto.ApplicationResponse{}, apperr.Unauthenticated("authentication required")
	}

	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	if application.StudentID != identity.Subject {
		return dto.ApplicationResponse{}, apperr.Forbidden("not your application")
	}

	if application.IsDecided() {
		return dto.ApplicationResponse{}, ErrApplicationDecided
	}

	application.Status = models.ApplicationStatusWithdrawn
	if err := s.applications.Update(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, err
	}

	return dto.NewApplicationResponse(application), nil
}

// Decide accepts or rejects a pending application. Only the project owner or
// an admin whose scope covers the project may decide.
func (s *applicationService) Decide(ctx context.Context, identity *authz.Identity, id uint, req dto.ApplicationDecisionRequest) (dto.ApplicationResponse, error) {
	if identity == nil {
		return dto.ApplicationResponse{}, apperr.Unauthenticated("authentication required")
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.ApplicationResponse{}, err
	}

	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	project := application.Project
	if identity.Subject != project.OwnerID && !identity.IsAdminFor(project.CollegeID, project.Department) {
		return dto.ApplicationResponse{}, apperr.Forbidden("not allowed to decide this application")
	}

	if application.IsDecided() {
		return dto.ApplicationResponse{}, ErrApplicationDecided
	}

	if req.Status == models.ApplicationStatusAccepted {
		accepted, err := s.applications.CountAccepted(ctx, application.ProjectID)
		if err != nil {
			return dto.ApplicationResponse{}, err
		}
		if accepted >= int64(project.Capacity) {
			return dto.ApplicationResponse{}, ErrProjectFull
		}
	}

	decidedAt := s.now().UTC()
	application.Status = req.Status
	application.DecidedBy = identity.Subject
	application.DecidedAt = &decidedAt

	if err := s.applications.Update(ctx, &application); err != nil {
		s.logger.Error().Err(err).Uint("application_id", id).Msg("failed to persist application decision")
		return dto.ApplicationResponse{}, err
	}

	return dto.NewApplicationResponse(application), nil
}

// List returns the caller's own applications, or all applications of a
// project when the caller owns the project or is an admin in scope.
func (s *applicationService) List(ctx context.Context, identity *authz.Identity, req dto.ApplicationListRequest) ([]dto.ApplicationResponse, int64, error) {
	if identity == nil {
		return nil, 0, apperr.Unauthenticated("authentication required")
	}

	filter := repository.ApplicationFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Status:   strings.TrimSpace(req.Status),
	}

	if req.ProjectID != nil {
		project, err := s.projects.GetByID(ctx, *req.ProjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrProjectNotFound
			}
			return nil, 0, err
		}

		if identity.Subject != project.OwnerID && !identity.IsAdminFor(project.CollegeID, project.Department) {
			return nil, 0, apperr.Forbidden("not allowed to list applications for this project")
		}

		filter.ProjectID = req.ProjectID
	} else {
		filter.StudentID = identity.Subject
	}

	applications, total, err := s.applications.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewApplicationResponses(applications), total, nil
}
