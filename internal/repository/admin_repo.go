package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/models"
)

// SupervisorRequestRepository defines data operations for supervisor access requests.
type SupervisorRequestRepository interface {
	Create(ctx context.Context, request *models.SupervisorRequest) error
	GetByID(ctx context.Context, id uint) (models.SupervisorRequest, error)
	ListByStatus(ctx context.Context, status string) ([]models.SupervisorRequest, error)
	Update(ctx context.Context, request *models.SupervisorRequest) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type supervisorRequestRepository struct {
	db *gorm.DB
}

// NewSupervisorRequestRepository instantiates the repository.
func NewSupervisorRequestRepository(db *gorm.DB) SupervisorRequestRepository {
	return &supervisorRequestRepository{db: db}
}

func (r *supervisorRequestRepository) Create(ctx context.Context, request *models.SupervisorRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *supervisorRequestRepository) GetByID(ctx context.Context, id uint) (models.SupervisorRequest, error) {
	var request models.SupervisorRequest
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		return models.SupervisorRequest{}, err
	}

	return request, nil
}

func (r *supervisorRequestRepository) ListByStatus(ctx context.Context, status string) ([]models.SupervisorRequest, error) {
	var requests []models.SupervisorRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("request_date ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *supervisorRequestRepository) Update(ctx context.Context, request *models.SupervisorRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *supervisorRequestRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SupervisorRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// AdminLogRepository defines data operations for the audit trail.
type AdminLogRepository interface {
	Create(ctx context.Context, log *models.AdminLog) error
	List(ctx context.Context, offset, limit int) ([]models.AdminLog, error)
}

type adminLogRepository struct {
	db *gorm.DB
}

// NewAdminLogRepository instantiates the repository.
func NewAdminLogRepository(db *gorm.DB) AdminLogRepository {
	return &adminLogRepository{db: db}
}

func (r *adminLogRepository) Create(ctx context.Context, log *models.AdminLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *adminLogRepository) List(ctx context.Context, offset, limit int) ([]models.AdminLog, error) {
	if limit <= 0 {
		limit = 100
	}

	var logs []models.AdminLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}
