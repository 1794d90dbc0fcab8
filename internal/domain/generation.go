package domain

import "context"

// Generator is the text generation contract shared by the summarizer and
// the ask orchestrator.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (GenerationResult, error)
}

// GenerationOptions are pass-through generation parameters.
// Zero values mean provider defaults.
type GenerationOptions struct {
	Temperature float32
	MaxTokens   int
}

// GenerationResult carries the generated text and token usage.
type GenerationResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
