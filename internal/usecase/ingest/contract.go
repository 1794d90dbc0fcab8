package ingest

import (
	"context"

	"github.com/kailas-cloud/docchat/internal/domain"
	domses "github.com/kailas-cloud/docchat/internal/domain/session"
	"github.com/kailas-cloud/docchat/internal/domain/text"
)

// SessionRepo manages the session lifecycle in storage.
type SessionRepo interface {
	Stage(ctx context.Context, id string) error
	Publish(ctx context.Context, sess domses.Session) error
	Discard(ctx context.Context, id string) error
}

// ChunkRepo stores chunk batches.
type ChunkRepo interface {
	InsertBatch(ctx context.Context, sessionID string, chunks []text.Chunk, vectors [][]float32) error
}

// BatchEmbedder vectorizes multiple texts in one call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// Summarizer produces a document-level synopsis.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
