package dto

import (
	"time"

	"github.com/campushq/projectdesk-api/internal/models"
)

// NotificationResponse serializes an in-app notification.
type NotificationResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse converts a Notification model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		Title:     model.Title,
		Message:   model.Message,
		Kind:      model.Kind,
		IsRead:    model.IsRead,
		CreatedAt: model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts notification models into DTOs.
func NewNotificationResponseSlice(items []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(items))
	for _, notification := range items {
		responses = append(responses, NewNotificationResponse(notification))
	}

	return responses
}
