package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

var (
	assistantDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "projectdesk",
		Subsystem: "assistant",
		Name:      "request_duration_seconds",
		Help:      "Duration of LLM assistant requests",
	}, []string{"model"})

	assistantFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "projectdesk",
		Subsystem: "assistant",
		Name:      "request_failures_total",
		Help:      "Number of LLM assistant failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI assistant.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIAssistant implements Assistant against the OpenAI chat completion API.
type OpenAIAssistant struct {
	client *openai.Client
	cfg    OpenAIConfig
	logger zerolog.Logger
}

// NewOpenAIAssistant builds a new assistant using the provided configuration.
func NewOpenAIAssistant(cfg OpenAIConfig) (*OpenAIAssistant, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIAssistant{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "openai_assistant").Logger(),
	}, nil
}

// Answer sends the question to the chat completion API and returns the reply text.
func (a *OpenAIAssistant) Answer(ctx context.Context, question Question) (string, error) {
	start := time.Now()

	request := openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: question.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question.UserQuestion},
		},
	}

	response, err := a.client.CreateChatCompletion(ctx, request)
	assistantDuration.WithLabelValues(a.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		assistantFailures.WithLabelValues(a.cfg.Model).Inc()
		a.logger.Error().Err(err).Msg("chat completion request failed")
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(response.Choices) == 0 {
		assistantFailures.WithLabelValues(a.cfg.Model).Inc()
		return "", fmt.Errorf("chat completion returned no choices")
	}

	answer := strings.TrimSpace(response.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("chat completion returned an empty answer")
	}

	return answer, nil
}
