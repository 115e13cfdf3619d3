package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/models"
)

// OTPRepository defines data operations for one-time passcodes.
type OTPRepository interface {
	PurgeUnused(ctx context.Context, email string) error
	Create(ctx context.Context, token *models.OTPToken) error
	FindUsable(ctx context.Context, email, code string, now time.Time) (models.OTPToken, error)
	MarkUsed(ctx context.Context, token *models.OTPToken) error
}

type otpRepository struct {
	db *gorm.DB
}

// NewOTPRepository instantiates the repository.
func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) PurgeUnused(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Where("email = ?", email).
		Where("is_used = ?", false).
		Delete(&models.OTPToken{}).Error
}

func (r *otpRepository) Create(ctx context.Context, token *models.OTPToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *otpRepository) FindUsable(ctx context.Context, email, code string, now time.Time) (models.OTPToken, error) {
	var token models.OTPToken
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Where("code = ?", code).
		Where("is_used = ?", false).
		Where("expires_at > ?", now).
		First(&token).Error
	if err != nil {
		return models.OTPToken{}, err
	}

	return token, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, token *models.OTPToken) error {
	token.IsUsed = true
	return r.db.WithContext(ctx).Save(token).Error
}
