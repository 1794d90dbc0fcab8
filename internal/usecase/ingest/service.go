package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domses "github.com/kailas-cloud/docchat/internal/domain/session"
	"github.com/kailas-cloud/docchat/internal/domain/text"
)

// Service runs the upload pipeline: normalize, chunk, embed, stage,
// summarize, publish.
type Service struct {
	sessions  SessionRepo
	chunks    ChunkRepo
	embed     BatchEmbedder
	summarize Summarizer
	chunkCfg  text.ChunkConfig
	logger    *zap.Logger
}

// New creates an ingest service.
func New(
	sessions SessionRepo, chunks ChunkRepo, embed BatchEmbedder, summarize Summarizer,
	chunkCfg text.ChunkConfig, logger *zap.Logger,
) *Service {
	return &Service{
		sessions:  sessions,
		chunks:    chunks,
		embed:     embed,
		summarize: summarize,
		chunkCfg:  chunkCfg,
		logger:    logger,
	}
}

// Ingest turns extracted page texts into a published session. The session
// metadata is written last: until then nothing references the staged
// index or chunk keys, and any failure discards them. A session is never
// observable in a partial state.
func (s *Service) Ingest(ctx context.Context, pages []string) (domses.Session, error) {
	normalized, err := text.Normalize(pages)
	if err != nil {
		return domses.Session{}, fmt.Errorf("normalize document: %w", err)
	}

	chunks, err := text.Split(normalized, s.chunkCfg)
	if err != nil {
		return domses.Session{}, fmt.Errorf("chunk document: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	emb, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return domses.Session{}, fmt.Errorf("embed chunks: %w", err)
	}

	id := uuid.NewString()

	if err := s.sessions.Stage(ctx, id); err != nil {
		return domses.Session{}, fmt.Errorf("stage session: %w", err)
	}

	if err := s.chunks.InsertBatch(ctx, id, chunks, emb.Embeddings); err != nil {
		return domses.Session{}, s.discard(ctx, id, fmt.Errorf("store chunks: %w", err))
	}

	summary, err := s.summarize.Summarize(ctx, normalized)
	if err != nil {
		return domses.Session{}, s.discard(ctx, id, fmt.Errorf("summarize document: %w", err))
	}

	sess, err := domses.New(id, len(pages), len(normalized), len(chunks), summary)
	if err != nil {
		return domses.Session{}, s.discard(ctx, id, fmt.Errorf("build session: %w", err))
	}

	if err := s.sessions.Publish(ctx, sess); err != nil {
		return domses.Session{}, s.discard(ctx, id, fmt.Errorf("publish session: %w", err))
	}

	s.logger.Info("session ingested",
		zap.String("session_id", id),
		zap.Int("pages", sess.PageCount()),
		zap.Int("chunks", sess.ChunkCount()),
		zap.Int("embedding_tokens", emb.TotalTokens),
	)

	return sess, nil
}

// discard cleans up staged artifacts and joins any cleanup failure onto
// the original error.
func (s *Service) discard(ctx context.Context, id string, err error) error {
	if cleanupErr := s.sessions.Discard(ctx, id); cleanupErr != nil {
		s.logger.Warn("discard after failed ingest",
			zap.String("session_id", id), zap.Error(cleanupErr))
		return errors.Join(err, cleanupErr)
	}
	return err
}
