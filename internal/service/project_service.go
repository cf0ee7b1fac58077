package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/projecthub-api/internal/apperr"
	"github.com/noah-isme/projecthub-api/internal/authz"
	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/models"
	"github.com/noah-isme/projecthub-api/internal/repository"
)

// ErrProjectNotFound indicates the project does not exist or was deleted.
var ErrProjectNotFound = errors.New("project not found")

// ProjectService manages the project catalogue.
type ProjectService interface {
	List(ctx context.Context, req dto.ProjectListRequest) ([]dto.ProjectResponse, int64, error)
	ListScoped(ctx context.Context, identity *authz.Identity, req dto.ProjectListRequest) ([]dto.ProjectResponse, int64, error)
	Get(ctx context.Context, id uint) (dto.ProjectResponse, error)
	Create(ctx context.Context, identity *authz.Identity, req dto.ProjectCreateRequest) (dto.ProjectResponse, error)
	Update(ctx context.Context, identity *authz.Identity, id uint, req dto.ProjectUpdateRequest) (dto.ProjectResponse, error)
	Delete(ctx context.Context, identity *authz.Identity, id uint) error
}

type projectService struct {
	repo      repository.ProjectRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

type cachedProjectPage struct {
	Items []dto.ProjectResponse `json:"items"`
	Total int64                 `json:"total"`
}

// NewProjectService constructs the project service. Cached listing pages are
// served stale for up to the TTL; mutations do not invalidate.
func NewProjectService(repo repository.ProjectRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) ProjectService {
	return &projectService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger.With().Str("component", "project_service").Logger(),
	}
}

// List serves the public catalogue of open projects, cached per page.
func (s *projectService) List(ctx context.Context, req dto.ProjectListRequest) ([]dto.ProjectResponse, int64, error) {
	cacheKey := fmt.Sprintf("projects:open:p%d:s%d:q%s", req.Page, req.PageSize, strings.ToLower(req.Search))

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var page cachedProjectPage
			if unmarshalErr := json.Unmarshal([]byte(cached), &page); unmarshalErr == nil {
				s.logger.Debug().Str("key", cacheKey).Msg("project list cache hit")
				return page.Items, page.Total, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read project list cache")
		}
	}

	projects, total, err := s.repo.List(ctx, repository.ProjectFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Status:   models.ProjectStatusOpen,
		Search:   strings.TrimSpace(req.Search),
	})
	if err != nil {
		return nil, 0, err
	}

	items := dto.NewProjectResponses(projects)

	if s.cache != nil {
		if payload, err := json.Marshal(cachedProjectPage{Items: items, Total: total}); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store project list cache")
			}
		}
	}

	return items, total, nil
}

// ListScoped serves the admin catalogue restricted to the caller's authority.
func (s *projectService) ListScoped(ctx context.Context, identity *authz.Identity, req dto.ProjectListRequest) ([]dto.ProjectResponse, int64, error) {
	if identity == nil {
		return nil, 0, apperr.Unauthenticated("authentication required")
	}

	college, ok := identity.CollegeFilter()
	if !ok {
		return nil, 0, apperr.Forbidden("admin scope incomplete")
	}
	department, ok := identity.DepartmentFilter()
	if !ok {
		return nil, 0, apperr.Forbidden("admin scope incomplete")
	}

	projects, total, err := s.repo.List(ctx, repository.ProjectFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Status:     strings.TrimSpace(req.Status),
		Search:     strings.TrimSpace(req.Search),
		CollegeID:  college,
		Department: department,
	})
	if err != nil {
		return nil, 0, err
	}

	return dto.NewProjectResponses(projects), total, nil
}

func (s *projectService) Get(ctx context.Context, id uint) (dto.ProjectResponse, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, ErrProjectNotFound
		}
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Create(ctx context.Context, identity *authz.Identity, req dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	if identity == nil {
		return dto.ProjectResponse{}, apperr.Unauthenticated("authentication required")
	}

	// Faculty shares the lowest rank with students, so membership has to be
	// checked by role, not by rank.
	if !identity.HasRole(authz.RoleFaculty) && !identity.HasRoleAtLeast(authz.RoleDeptAdmin) {
		return dto.ProjectResponse{}, apperr.Forbidden("only faculty can create projects")
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.ProjectResponse{}, err
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	project := models.Project{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      models.ProjectStatusDraft,
		CollegeID:   strings.TrimSpace(req.CollegeID),
		Department:  strings.TrimSpace(req.Department),
		OwnerID:     identity.Subject,
		OwnerName:   identity.Name,
		Capacity:    capacity,
	}

	if err := s.repo.Create(ctx, &project); err != nil {
		s.logger.Error().Err(err).Msg("failed to create project")
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Update(ctx context.Context, identity *authz.Identity, id uint, req dto.ProjectUpdateRequest) (dto.ProjectResponse, error) {
	if identity == nil {
		return dto.ProjectResponse{}, apperr.Unauthenticated("authentication required")
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.ProjectResponse{}, err
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, ErrProjectNotFound
		}
		return dto.ProjectResponse{}, err
	}

	if !s.canManage(identity, project) {
		return dto.ProjectResponse{}, apperr.Forbidden("not allowed to manage this project")
	}

	if req.Title != nil {
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Capacity != nil {
		project.Capacity = *req.Capacity
	}

	if err := s.repo.Update(ctx, &project); err != nil {
		s.logger.Error().Err(err).Uint("project_id", id).Msg("failed to update project")
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Delete(ctx context.Context, identity *authz.Identity, id uint) error {
	if identity == nil {
		return apperr.Unauthenticated("authentication required")
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	if !identity.IsAdminFor(project.CollegeID, project.Department) {
		return apperr.Forbidden("not allowed to delete this project")
	}

	return s.repo.Delete(ctx, id)
}

// canManage admits the owner and any admin whose scope covers the project.
func (s *projectService) canManage(identity *authz.Identity, project models.Project) bool {
	if identity.Subject == project.OwnerID {
		return true
	}
	return identity.IsAdminFor(project.CollegeID, project.Department)
}
