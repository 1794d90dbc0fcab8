package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/docchat/internal/db"
	"github.com/kailas-cloud/docchat/internal/domain"
	domses "github.com/kailas-cloud/docchat/internal/domain/session"
)

// store is the consumer interface for session lifecycle (ISP).
//
//nolint:interfacebloat // session repo needs hash + index management operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements usecase session repositories.
type Repo struct {
	store     store
	vectorDim int
	hnsw      HNSWConfig
}

// New creates a session repository.
func New(s store, vectorDim int) *Repo {
	return &Repo{store: s, vectorDim: vectorDim, hnsw: HNSWConfig{M: 32, EFConstruct: 400}}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// Stage creates the per-session chunk index via FT.CREATE. Chunks written
// under the session prefix afterwards are staged: the session stays
// invisible to reads until Publish writes the metadata hash.
func (r *Repo) Stage(ctx context.Context, id string) error {
	// An index under this name means a previous ingest crashed before its
	// cleanup ran. Reclaim it so staging starts from a clean slate.
	stale, err := r.store.IndexExists(ctx, indexName(id))
	if err != nil {
		return fmt.Errorf("probe index %s: %w", indexName(id), err)
	}
	if stale {
		if err := r.dropArtifacts(ctx, id); err != nil {
			return fmt.Errorf("reclaim stale index %s: %w", indexName(id), err)
		}
	}

	def := buildIndex(id, r.vectorDim, r.hnsw)
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// Publish makes a staged session visible. The metadata HSET is the final
// write of ingest, so a session either appears complete or not at all.
func (r *Repo) Publish(ctx context.Context, sess domses.Session) error {
	if err := r.store.HSet(ctx, metaKey(sess.ID()), sessionToHash(sess)); err != nil {
		return fmt.Errorf("hset session %s: %w", sess.ID(), err)
	}
	return nil
}

// Get retrieves a session by ID.
func (r *Repo) Get(ctx context.Context, id string) (domses.Session, error) {
	m, err := r.store.HGetAll(ctx, metaKey(id))
	if err != nil {
		return domses.Session{}, fmt.Errorf("hgetall session %s: %w", id, err)
	}
	if len(m) == 0 {
		return domses.Session{}, domain.ErrUnknownSession
	}
	return sessionFromHash(id, m)
}

// List returns all published sessions sorted by CreatedAt.
func (r *Repo) List(ctx context.Context) ([]domses.Session, error) {
	keys, err := r.store.Scan(ctx, metaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	if len(keys) == 0 {
		return []domses.Session{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi sessions: %w", err)
	}

	sessions := make([]domses.Session, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		sess, err := sessionFromHash(idFromMetaKey(keys[i]), m)
		if err != nil {
			return nil, fmt.Errorf("parse session %s: %w", keys[i], err)
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt() < sessions[j].CreatedAt()
	})

	return sessions, nil
}

// Evict removes a session and everything it owns. The metadata hash goes
// first so the session disappears from reads before the index and chunk
// keys are reclaimed.
func (r *Repo) Evict(ctx context.Context, id string) error {
	ok, err := r.store.Exists(ctx, metaKey(id))
	if err != nil {
		return fmt.Errorf("exists session %s: %w", id, err)
	}
	if !ok {
		return domain.ErrUnknownSession
	}

	if err := r.store.Del(ctx, metaKey(id)); err != nil {
		return fmt.Errorf("del session %s: %w", id, err)
	}

	return r.dropArtifacts(ctx, id)
}

// Discard cleans up the staged index and chunk keys after a failed ingest.
// The metadata hash was never written, so there is no existence check.
func (r *Repo) Discard(ctx context.Context, id string) error {
	return r.dropArtifacts(ctx, id)
}

func (r *Repo) dropArtifacts(ctx context.Context, id string) error {
	if err := r.store.DropIndex(ctx, indexName(id)); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", indexName(id), err)
	}

	keys, err := r.store.Scan(ctx, chunkPrefix(id)+"*")
	if err != nil {
		return fmt.Errorf("scan chunks %s: %w", id, err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := r.store.DelMulti(ctx, keys); err != nil {
		return fmt.Errorf("del chunks %s: %w", id, err)
	}
	return nil
}

// Redis key patterns: docchat:session:{id}, docchat:{id}:idx, docchat:{id}:{chunk_index}

func metaKey(id string) string {
	return fmt.Sprintf("%ssession:%s", domain.KeyPrefix, id)
}

func indexName(id string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, id)
}

func chunkPrefix(id string) string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, id)
}

func idFromMetaKey(key string) string {
	return strings.TrimPrefix(key, metaKey(""))
}
