package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/apperr"
	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/models"
	"github.com/campushq/projectdesk-api/internal/repository"
	"github.com/campushq/projectdesk-api/pkg/ai"
)

// Answer sources reported to the client.
const (
	ChatSourceFAQ = "faq"
	ChatSourceLLM = "llm"
)

const chatSystemPrompt = "You are the assistant for an academic project management platform. " +
	"Students form teams, upload staged submissions (synopsis, progress reports, final submission), " +
	"teammates approve submissions, and supervisors and admins score them. " +
	"Answer questions about using the platform concisely. If a question is unrelated to the " +
	"platform or academic project work, say you can only help with the platform."

// ChatbotService answers platform questions, preferring the curated FAQ and
// falling back to the LLM. Every exchange is persisted as a session.
type ChatbotService interface {
	Ask(ctx context.Context, userID uint, role string, payload dto.ChatAskRequest) (dto.ChatAnswerResponse, error)
	Sessions(ctx context.Context, userID uint, limit int) ([]dto.ChatSessionResponse, error)
	DeleteSession(ctx context.Context, userID, sessionID uint) error
}

type chatbotService struct {
	sessions  repository.ChatRepository
	assistant ai.Assistant
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	faq       map[string]map[string]string
	logger    zerolog.Logger
}

// NewChatbotService constructs a ChatbotService instance. assistant may be
// nil, in which case only FAQ answers are served.
func NewChatbotService(sessions repository.ChatRepository, assistant ai.Assistant, validate *validator.Validate, logger zerolog.Logger) ChatbotService {
	return &chatbotService{
		sessions:  sessions,
		assistant: assistant,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		faq:       defaultFAQ(),
		logger:    logger.With().Str("component", "chatbot_service").Logger(),
	}
}

func (s *chatbotService) Ask(ctx context.Context, userID uint, role string, payload dto.ChatAskRequest) (dto.ChatAnswerResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChatAnswerResponse{}, err
	}

	question := strings.TrimSpace(s.sanitizer.Sanitize(payload.Question))
	if question == "" {
		return dto.ChatAnswerResponse{}, fmt.Errorf("question is empty after sanitization: %w", apperr.ErrInvalidArgument)
	}

	answer, source := s.lookupFAQ(role, question)
	if source == "" {
		if s.assistant == nil {
			return dto.ChatAnswerResponse{}, fmt.Errorf("assistant unavailable: %w", apperr.ErrInvalidState)
		}

		reply, err := s.assistant.Answer(ctx, ai.Question{
			SystemPrompt: chatSystemPrompt,
			UserQuestion: question,
		})
		if err != nil {
			return dto.ChatAnswerResponse{}, fmt.Errorf("assistant answer: %w", err)
		}

		answer = reply
		source = ChatSourceLLM
	}

	session := models.ChatSession{
		UserID:   userID,
		Question: question,
		Answer:   answer,
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return dto.ChatAnswerResponse{}, fmt.Errorf("store chat session: %w", err)
	}

	s.logger.Info().Uint("user_id", userID).Str("source", source).Msg("chat question answered")

	return dto.ChatAnswerResponse{
		Answer:    answer,
		SessionID: session.ID,
		Source:    source,
		CreatedAt: session.CreatedAt,
	}, nil
}

func (s *chatbotService) Sessions(ctx context.Context, userID uint, limit int) ([]dto.ChatSessionResponse, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}

	return dto.NewChatSessionResponseSlice(sessions), nil
}

func (s *chatbotService) DeleteSession(ctx context.Context, userID, sessionID uint) error {
	if _, err := s.sessions.Get(ctx, sessionID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("chat session %d: %w", sessionID, apperr.ErrNotFound)
		}
		return fmt.Errorf("get chat session: %w", err)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}

	return nil
}

// lookupFAQ checks the role-specific entries first, then the shared set.
// Matching is exact on the normalized question.
func (s *chatbotService) lookupFAQ(role, question string) (string, string) {
	normalized := normalizeQuestion(question)

	if entries, ok := s.faq[role]; ok {
		if answer, ok := entries[normalized]; ok {
			return answer, ChatSourceFAQ
		}
	}
	if answer, ok := s.faq[""][normalized]; ok {
		return answer, ChatSourceFAQ
	}

	return "", ""
}

func normalizeQuestion(question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	return strings.TrimRight(normalized, "?!. ")
}

func defaultFAQ() map[string]map[string]string {
	return map[string]map[string]string{
		"": {
			"what are the submission stages": "Submissions pass through four stages: synopsis, progress_1, progress_2 and final_submission.",
			"how does team approval work":    "Every team member except the uploader gets a vote. The submission is team-approved once all votes are approvals; a rejection keeps it pending.",
			"how is the final score calculated": "The final score is the average of all supervisor scores (out of 10) plus the latest admin score (out of 20).",
		},
		models.RoleStudent: {
			"how do i join a project":    "Open the enrollment link your supervisor shared and confirm with the enrollment token.",
			"how do i create a team":     "After enrolling, create a team from the project page and invite enrolled classmates by email.",
			"how do i lock my team":      "Once every invitation is answered and your team is active, the leader can lock the roster from the team page.",
			"how do i upload a submission": "The team leader uploads a file link for the current stage from the team page. Teammates then approve it.",
		},
		models.RoleSupervisor: {
			"how do i score a submission": "Open a team-approved submission and record a score between 0 and 10 with optional comments.",
		},
		models.RoleAdmin: {
			"how do i score a submission": "Open a team-approved submission and record a score between 0 and 20. The latest admin score feeds the leaderboard.",
		},
	}
}
