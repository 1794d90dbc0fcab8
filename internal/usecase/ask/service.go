package ask

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/qa"
)

// NoAnswerText is returned when retrieval finds nothing for the question.
// The generator is not called in that case.
const NoAnswerText = "The document does not contain relevant information for this question."

// Config holds retrieval-answer settings.
type Config struct {
	TopK        int
	Temperature float32
	MaxTokens   int
}

// Service answers questions against a single session, grounded strictly
// in retrieved chunks.
type Service struct {
	sessions SessionReader
	search   Retriever
	embed    Embedder
	gen      Generator
	cfg      Config
	logger   *zap.Logger
}

// New creates an ask service.
func New(
	sessions SessionReader, search Retriever, embed Embedder, gen Generator,
	cfg Config, logger *zap.Logger,
) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = 4
	}
	return &Service{
		sessions: sessions,
		search:   search,
		embed:    embed,
		gen:      gen,
		cfg:      cfg,
		logger:   logger,
	}
}

// Ask embeds the question, retrieves the session's best-matching chunks
// and generates an answer from them. Session existence is checked before
// any provider call so unknown sessions fail fast.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (qa.Answer, error) {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return qa.Answer{}, fmt.Errorf("get session: %w", err)
	}

	emb, err := s.embed.Embed(ctx, question)
	if err != nil {
		return qa.Answer{}, fmt.Errorf("embed question: %w", err)
	}

	retrieved, err := s.search.TopK(ctx, sessionID, emb.Embedding, s.cfg.TopK)
	if err != nil {
		return qa.Answer{}, fmt.Errorf("retrieve chunks: %w", err)
	}

	if len(retrieved) == 0 {
		s.logger.Info("no chunks retrieved",
			zap.String("session_id", sessionID))
		return qa.Answer{Text: NoAnswerText}, nil
	}

	res, err := s.gen.Generate(ctx, buildPrompt(retrieved, question), domain.GenerationOptions{
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return qa.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	sources := make([]qa.Source, len(retrieved))
	for i, r := range retrieved {
		sources[i] = qa.Source{ChunkIndex: r.ChunkIndex, Text: r.Text}
	}

	s.logger.Info("question answered",
		zap.String("session_id", sessionID),
		zap.Int("chunks", len(retrieved)),
		zap.Int("total_tokens", res.TotalTokens),
	)

	return qa.Answer{Text: res.Text, Sources: sources}, nil
}

// buildPrompt assembles the grounded prompt: the retrieved chunks in
// retrieval order, the question, and a context-only instruction.
func buildPrompt(retrieved []qa.Retrieved, question string) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the context below. " +
		"If the context does not contain the answer, say so.\n\nContext:\n")
	for _, r := range retrieved {
		b.WriteString(r.Text)
		b.WriteString("\n\n")
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}
