package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/models"
)

// ProjectRepository defines data operations for projects and enrollments.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (models.Project, error)
	List(ctx context.Context, offset, limit int) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	CreateEnrollment(ctx context.Context, enrollment *models.ProjectEnrollment) error
	GetEnrollment(ctx context.Context, projectID, userID uint) (models.ProjectEnrollment, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository instantiates the repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return models.Project{}, err
	}

	return project, nil
}

func (r *projectRepository) List(ctx context.Context, offset, limit int) ([]models.Project, error) {
	if limit <= 0 {
		limit = 100
	}

	var projects []models.Project
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) CreateEnrollment(ctx context.Context, enrollment *models.ProjectEnrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *projectRepository) GetEnrollment(ctx context.Context, projectID, userID uint) (models.ProjectEnrollment, error) {
	var enrollment models.ProjectEnrollment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Where("user_id = ?", userID).
		First(&enrollment).Error
	if err != nil {
		return models.ProjectEnrollment{}, err
	}

	return enrollment, nil
}
