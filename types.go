package docchat

import (
	"context"
	"time"

	"github.com/kailas-cloud/docchat/internal/domain/qa"
	domses "github.com/kailas-cloud/docchat/internal/domain/session"
)

// Session describes one published document session.
type Session struct {
	ID         string
	CreatedAt  time.Time
	PageCount  int
	CharCount  int
	ChunkCount int
	Summary    string
}

// Source is one retrieved chunk an answer was grounded on.
type Source struct {
	ChunkIndex int
	Text       string
}

// Answer is the result of one question against a session. Grounded is
// false when retrieval found nothing and the no-information text was
// returned without calling the generator.
type Answer struct {
	Text     string
	Sources  []Source
	Grounded bool
}

// EmbeddingResult is a single embedding vector with token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries one vector per input text, in input order.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// GenerationOptions tune a text generation call.
type GenerationOptions struct {
	Temperature float32
	MaxTokens   int
}

// GenerationResult is the generator's reply with token usage.
type GenerationResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Embedder vectorizes text. Implementations wrap an embedding provider.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder is an optional upgrade for providers with native batch
// support. Embedders without it fall back to one Embed call per text.
type BatchEmbedder interface {
	Embedder
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// Generator produces text completions.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (GenerationResult, error)
}

func sessionFromDomain(sess *domses.Session) Session {
	return Session{
		ID:         sess.ID(),
		CreatedAt:  time.Unix(sess.CreatedAt(), 0).UTC(),
		PageCount:  sess.PageCount(),
		CharCount:  sess.CharCount(),
		ChunkCount: sess.ChunkCount(),
		Summary:    sess.Summary(),
	}
}

func answerFromDomain(ans *qa.Answer) Answer {
	sources := make([]Source, len(ans.Sources))
	for i, src := range ans.Sources {
		sources[i] = Source{ChunkIndex: src.ChunkIndex, Text: src.Text}
	}
	return Answer{
		Text:     ans.Text,
		Sources:  sources,
		Grounded: ans.Grounded(),
	}
}
