package chunk

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docchat/internal/db"
	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/text"
)

// store is the consumer interface for chunk writes (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
}

// Repo implements usecase chunk storage.
type Repo struct {
	store store
}

// New creates a chunk repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// InsertBatch stores one hash per chunk under the session prefix in a
// single pipelined round-trip. vectors must be parallel to chunks.
func (r *Repo) InsertBatch(ctx context.Context, sessionID string, chunks []text.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(chunks))
	for i := range chunks {
		items[i] = db.HashSetItem{
			Key:    chunkKey(sessionID, chunks[i].Index),
			Fields: chunkToHash(chunks[i], vectors[i]),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset chunks %s: %w", sessionID, err)
	}
	return nil
}

func chunkKey(sessionID string, index int) string {
	return fmt.Sprintf("%s%s:%d", domain.KeyPrefix, sessionID, index)
}
