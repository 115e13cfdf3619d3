package dto

import (
	"time"

	"github.com/campushq/projectdesk-api/internal/models"
)

// ChatAskRequest is one question for the FAQ chatbot.
type ChatAskRequest struct {
	Question string `json:"question" validate:"required,min=2,max=2000"`
}

// ChatAnswerResponse carries the chatbot answer and the persisted session id.
type ChatAnswerResponse struct {
	Answer    string    `json:"answer"`
	SessionID uint      `json:"session_id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSessionResponse serializes a stored question/answer exchange.
type ChatSessionResponse struct {
	ID        uint      `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// NewChatSessionResponse converts a ChatSession model into a DTO.
func NewChatSessionResponse(model models.ChatSession) ChatSessionResponse {
	return ChatSessionResponse{
		ID:        model.ID,
		Question:  model.Question,
		Answer:    model.Answer,
		CreatedAt: model.CreatedAt,
	}
}

// NewChatSessionResponseSlice converts chat session models into DTOs.
func NewChatSessionResponseSlice(items []models.ChatSession) []ChatSessionResponse {
	responses := make([]ChatSessionResponse, 0, len(items))
	for _, session := range items {
		responses = append(responses, NewChatSessionResponse(session))
	}

	return responses
}
