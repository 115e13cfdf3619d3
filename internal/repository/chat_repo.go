package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/models"
)

// ChatRepository defines data operations for chatbot sessions.
type ChatRepository interface {
	Create(ctx context.Context, session *models.ChatSession) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.ChatSession, error)
	Get(ctx context.Context, id, userID uint) (models.ChatSession, error)
	Delete(ctx context.Context, id uint) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository instantiates the repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, session *models.ChatSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *chatRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.ChatSession, error) {
	if limit <= 0 {
		limit = 50
	}

	var sessions []models.ChatSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *chatRepository) Get(ctx context.Context, id, userID uint) (models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		First(&session).Error
	if err != nil {
		return models.ChatSession{}, err
	}

	return session, nil
}

func (r *chatRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ChatSession{}, id).Error
}
