package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/projecthub-api/internal/models"
)

// ApplicationFilter narrows application queries.
type ApplicationFilter struct {
	Page      int
	PageSize  int
	ProjectID *uint
	StudentID string
	Status    string
}

// ApplicationRepository persists project applications.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, id uint) (models.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]models.Application, int64, error)
	Update(ctx context.Context, application *models.Application) error
	CountAccepted(ctx context.Context, projectID uint) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository constructs the application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).Preload("Project").First(&application, id).Error
	return application, err
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Application{})

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var applications []models.Application
	if err := query.Order("created_at DESC").Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

func (r *applicationRepository) Update(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Save(application).Error
}

func (r *applicationRepository) CountAccepted(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("project_id = ? AND status = ?", projectID, models.ApplicationStatusAccepted).
		Count(&count).Error
	return count, err
}
