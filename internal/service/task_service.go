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

// ErrTaskNotFound indicates the task does not exist.
var ErrTaskNotFound = errors.New("task not found")

// TaskService manages tasks inside a project.
type TaskService interface {
	Create(ctx context.Context, identity *authz.Identity, projectID uint, req dto.TaskCreateRequest) (dto.TaskResponse, error)
	List(ctx context.Context, projectID uint, page, pageSize int) ([]dto.TaskResponse, int64, error)
	Update(ctx context.Context, identity *authz.Identity, id uint, req dto.TaskUpdateRequest) (dto.TaskResponse, error)
	Delete(ctx context.Context, identity *authz.Identity, id uint) error
}

type taskService struct {
	tasks     repository.TaskRepository
	projects  repository.ProjectRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTaskService constructs the task service.
func NewTaskService(tasks repository.TaskRepository, projects repository.ProjectRepository, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		tasks:     tasks,
		projects:  projects,
		validator: validate,
		logger:    logger.With().Str("component", "task_service").Logger(),
		now:       time.Now,
	}
}

func (s *taskService) Create(ctx context.Context, identity *authz.Identity, projectID uint, req dto.TaskCreateRequest) (dto.TaskResponse, error) {
	if identity == nil {
		return dto.TaskResponse{}, apperr.Unauthenticated("authentication required")
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.TaskResponse{}, err
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	if !s.canManage(identity, project) {
		return dto.TaskResponse{}, apperr.Forbidden("not allowed to manage tasks on this project")
	}

	task := models.Task{
		ProjectID:   project.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      models.TaskStatusTodo,
		AssigneeID:  strings.TrimSpace(req.AssigneeID),
		DueDate:     req.DueDate,
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		s.logger.Error().Err(err).Uint("project_id", projectID).Msg("failed to create task")
		return dto.TaskResponse{}, err
	}

	return dto.NewTaskResponse(task, s.now()), nil
}

func (s *taskService) List(ctx context.Context, projectID uint, page, pageSize int) ([]dto.TaskResponse, int64, error) {
	if _, err := s.loadProject(ctx, projectID); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.tasks.List(ctx, repository.TaskFilter{
		Page:      page,
		PageSize:  pageSize,
		ProjectID: &projectID,
	})
	if err != nil {
		return nil, 0, err
	}

	return dto.NewTaskResponses(tasks, s.now()), total, nil
}

func (s *taskService) Update(ctx context.Context, identity *authz.Identity, id uint, req dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	if identity == nil {
		return dto.TaskResponse{}, apperr.Unauthenticated("authentication required")
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}

	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	// Assignees may move their own task between states; everything else
	// requires management rights.
	statusOnly := req.Title == nil && req.Description == nil && req.AssigneeID == nil && req.DueDate == nil
	if !s.canManage(identity, project) && !(statusOnly && task.AssigneeID == identity.Subject) {
		return dto.TaskResponse{}, apperr.Forbidden("not allowed to update this task")
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.AssigneeID != nil {
		task.AssigneeID = strings.TrimSpace(*req.AssigneeID)
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := s.tasks.Update(ctx, &task); err != nil {
		s.logger.Error().Err(err).Uint("task_id", id).Msg("failed to update task")
		return dto.TaskResponse{}, err
	}

	return dto.NewTaskResponse(task, s.now()), nil
}

func (s *taskService) Delete(ctx context.Context, identity *authz.Identity, id uint) error {
	if identity == nil {
		return apperr.Unauthenticated("authentication required")
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}

	if !s.canManage(identity, project) {
		return apperr.Forbidden("not allowed to delete this task")
	}

	return s.tasks.Delete(ctx, id)
}

func (s *taskService) loadProject(ctx context.Context, projectID uint) (models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, ErrProjectNotFound
		}
		return models.Project{}, err
	}
	return project, nil
}

func (s *taskService) canManage(identity *authz.Identity, project models.Project) bool {
	if identity.Subject == project.OwnerID {
		return true
	}
	return identity.IsAdminFor(project.CollegeID, project.Department)
}
