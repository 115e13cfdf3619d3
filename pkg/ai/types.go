package ai

import "context"

// Question carries everything the assistant needs to answer one query.
type Question struct {
	SystemPrompt string
	UserQuestion string
}

// Assistant describes an LLM capable of answering platform questions.
type Assistant interface {
	Answer(ctx context.Context, question Question) (string, error)
}
