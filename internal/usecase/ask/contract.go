package ask

import (
	"context"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/qa"
	domses "github.com/kailas-cloud/docchat/internal/domain/session"
)

// SessionReader checks session existence.
type SessionReader interface {
	Get(ctx context.Context, id string) (domses.Session, error)
}

// Retriever finds the best-matching chunks of a session.
type Retriever interface {
	TopK(ctx context.Context, sessionID string, vector []float32, k int) ([]qa.Retrieved, error)
}

// Embedder vectorizes the question.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Generator produces the grounded answer.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (domain.GenerationResult, error)
}
