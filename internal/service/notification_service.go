package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/apperr"
	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/repository"
)

// NotificationService exposes the in-app notification inbox.
type NotificationService interface {
	List(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, userID, notificationID uint) (dto.NotificationResponse, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	logger        zerolog.Logger
}

// NewNotificationService constructs a NotificationService instance.
func NewNotificationService(notifications repository.NotificationRepository, logger zerolog.Logger) NotificationService {
	return &notificationService{
		notifications: notifications,
		logger:        logger.With().Str("component", "notification_service").Logger(),
	}
}

func (s *notificationService) List(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error) {
	notifications, err := s.notifications.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uint) (dto.NotificationResponse, error) {
	notification, err := s.notifications.MarkRead(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, fmt.Errorf("notification %d: %w", notificationID, apperr.ErrNotFound)
		}
		return dto.NotificationResponse{}, fmt.Errorf("mark notification read: %w", err)
	}

	return dto.NewNotificationResponse(notification), nil
}
