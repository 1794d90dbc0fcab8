package search

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/kailas-cloud/docchat/internal/db"
	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/qa"
)

// store is the consumer interface for retrieval (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase chunk retrieval.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// TopK returns the best-matching chunks of a session for the given query
// vector. Results are ordered best-first; equal scores fall back to
// ascending chunk index so repeated queries are deterministic.
func (r *Repo) TopK(ctx context.Context, sessionID string, vector []float32, k int) ([]qa.Retrieved, error) {
	// __vector_score must be requested explicitly: without it the store
	// returns no distance and every entry's Score stays zero.
	q := &db.KNNQuery{
		IndexName:    indexName(sessionID),
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"__content", "chunk_index", "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: search knn %s: %w", domain.ErrRetrieval, sessionID, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	retrieved := make([]qa.Retrieved, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		idx, err := strconv.Atoi(entry.Fields["chunk_index"])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid chunk_index in %s: %w", domain.ErrRetrieval, entry.Key, err)
		}
		retrieved = append(retrieved, qa.Retrieved{
			ChunkIndex: idx,
			Text:       entry.Fields["__content"],
			Score:      entry.Score,
		})
	}

	// FT.SEARCH KNN result order is not guaranteed without SORTBY.
	sort.SliceStable(retrieved, func(i, j int) bool {
		if retrieved[i].Score != retrieved[j].Score {
			return retrieved[i].Score > retrieved[j].Score
		}
		return retrieved[i].ChunkIndex < retrieved[j].ChunkIndex
	})

	return retrieved, nil
}

func indexName(sessionID string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, sessionID)
}
