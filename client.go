// Package docchat is the embedded SDK: document ingestion and grounded
// Q&A over a Redis vector store, without running the HTTP server.
package docchat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/db"
	dbRedis "github.com/kailas-cloud/docchat/internal/db/redis"
	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/text"
	chunkrepo "github.com/kailas-cloud/docchat/internal/repository/chunk"
	searchrepo "github.com/kailas-cloud/docchat/internal/repository/search"
	sessionrepo "github.com/kailas-cloud/docchat/internal/repository/session"
	pdfTransport "github.com/kailas-cloud/docchat/internal/transport/pdf"
	askuc "github.com/kailas-cloud/docchat/internal/usecase/ask"
	ingestuc "github.com/kailas-cloud/docchat/internal/usecase/ingest"
	sessionuc "github.com/kailas-cloud/docchat/internal/usecase/session"
	summaryuc "github.com/kailas-cloud/docchat/internal/usecase/summary"
)

const defaultReadinessTimeout = 10 * time.Second

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs        []string
	password     string
	vectorDim    int
	hnswM        int
	hnswEF       int
	chunkSize    int
	chunkOverlap int
	segmentChars int
	topK         int
	temperature  float32
	maxTokens    int
	embedder     Embedder
	generator    Generator
	logger       *zap.Logger
}

// WithRedis sets the Redis addresses to connect to.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithPassword sets the database password.
func WithPassword(password string) Option {
	return func(c *clientConfig) { c.password = password }
}

// WithEmbedder sets the embedding provider. Required.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithGenerator sets the text generation provider. Required.
func WithGenerator(g Generator) Option {
	return func(c *clientConfig) { c.generator = g }
}

// WithVectorDim overrides the embedding vector dimensionality.
func WithVectorDim(dim int) Option {
	return func(c *clientConfig) { c.vectorDim = dim }
}

// WithHNSW tunes the vector index construction parameters.
func WithHNSW(m, efConstruct int) Option {
	return func(c *clientConfig) {
		c.hnswM = m
		c.hnswEF = efConstruct
	}
}

// WithChunking overrides chunk size and overlap, in characters.
func WithChunking(sizeChars, overlapChars int) Option {
	return func(c *clientConfig) {
		c.chunkSize = sizeChars
		c.chunkOverlap = overlapChars
	}
}

// WithTopK sets how many chunks are retrieved per question.
func WithTopK(k int) Option {
	return func(c *clientConfig) { c.topK = k }
}

// WithGeneration tunes the answer and summary generation calls.
func WithGeneration(temperature float32, maxTokens int) Option {
	return func(c *clientConfig) {
		c.temperature = temperature
		c.maxTokens = maxTokens
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// Client is the docchat SDK entry point.
type Client struct {
	store     db.Store
	extractor *pdfTransport.Extractor
	ingest    *ingestuc.Service
	ask       *askuc.Service
	sessions  *sessionuc.Service
}

// New creates a docchat Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDim:    domain.DefaultVectorConfig().Dimensions,
		chunkSize:    1000,
		chunkOverlap: 100,
		logger:       zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("docchat: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("docchat: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("docchat: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	sessionRepo := sessionrepo.New(store, cfg.vectorDim)
	if cfg.hnswM > 0 || cfg.hnswEF > 0 {
		sessionRepo = sessionRepo.WithHNSW(sessionrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEF,
		})
	}
	chunkRepo := chunkrepo.New(store)
	searchRepo := searchrepo.New(store)

	// Noop providers error on use when not configured.
	var embInner Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		embInner = cfg.embedder
	}
	emb := &embedderAdapter{inner: embInner}

	var genInner Generator = &noopGenerator{}
	if cfg.generator != nil {
		genInner = cfg.generator
	}
	gen := &generatorAdapter{inner: genInner}

	summarySvc := summaryuc.New(gen, summaryuc.Config{
		SegmentChars: cfg.segmentChars,
		Temperature:  cfg.temperature,
		MaxTokens:    cfg.maxTokens,
	})
	ingestSvc := ingestuc.New(sessionRepo, chunkRepo, emb, summarySvc, text.ChunkConfig{
		SizeChars:    cfg.chunkSize,
		OverlapChars: cfg.chunkOverlap,
	}, cfg.logger)
	askSvc := askuc.New(sessionRepo, searchRepo, emb, gen, askuc.Config{
		TopK:        cfg.topK,
		Temperature: cfg.temperature,
		MaxTokens:   cfg.maxTokens,
	}, cfg.logger)
	sessionSvc := sessionuc.New(sessionRepo, cfg.logger)

	return &Client{
		store:     store,
		extractor: pdfTransport.NewExtractor(),
		ingest:    ingestSvc,
		ask:       askSvc,
		sessions:  sessionSvc,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// UploadPDF extracts text from a PDF and publishes a new session.
func (c *Client) UploadPDF(ctx context.Context, r io.Reader) (Session, error) {
	pages, err := c.extractor.Pages(r)
	if err != nil {
		return Session{}, fmt.Errorf("upload pdf: %w", err)
	}
	return c.UploadText(ctx, pages)
}

// UploadText publishes a new session from already-extracted page texts.
func (c *Client) UploadText(ctx context.Context, pages []string) (Session, error) {
	sess, err := c.ingest.Ingest(ctx, pages)
	if err != nil {
		return Session{}, fmt.Errorf("upload: %w", err)
	}
	return sessionFromDomain(&sess), nil
}

// Ask answers a question against a session, grounded in its chunks.
func (c *Client) Ask(ctx context.Context, sessionID, question string) (Answer, error) {
	ans, err := c.ask.Ask(ctx, sessionID, question)
	if err != nil {
		return Answer{}, fmt.Errorf("ask: %w", err)
	}
	return answerFromDomain(&ans), nil
}

// Sessions lists all published sessions, oldest first.
func (c *Client) Sessions(ctx context.Context) ([]Session, error) {
	list, err := c.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("sessions: %w", err)
	}
	out := make([]Session, len(list))
	for i := range list {
		out[i] = sessionFromDomain(&list[i])
	}
	return out, nil
}

// Session retrieves a session by ID.
func (c *Client) Session(ctx context.Context, id string) (Session, error) {
	sess, err := c.sessions.Get(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("session: %w", err)
	}
	return sessionFromDomain(&sess), nil
}

// Evict removes a session with its index and chunks.
func (c *Client) Evict(ctx context.Context, id string) error {
	if err := c.sessions.Evict(ctx, id); err != nil {
		return fmt.Errorf("evict: %w", err)
	}
	return nil
}

// embedderAdapter wraps the public Embedder to satisfy the internal contracts.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, txt string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, txt)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	be, ok := a.inner.(BatchEmbedder)
	if !ok {
		res, err := domain.BatchFallback(ctx, a, texts)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		return res, nil
	}

	r, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// generatorAdapter wraps the public Generator to satisfy the internal contracts.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Generate(
	ctx context.Context, prompt string, opts domain.GenerationOptions,
) (domain.GenerationResult, error) {
	r, err := a.inner.Generate(ctx, prompt, GenerationOptions{
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("generate: %w", err)
	}
	return domain.GenerationResult{
		Text:             r.Text,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on use (no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (EmbeddingResult, error) {
	return EmbeddingResult{}, errors.New("docchat: embedder not configured (use WithEmbedder)")
}

// noopGenerator returns an error on use (no generator configured).
type noopGenerator struct{}

func (noopGenerator) Generate(_ context.Context, _ string, _ GenerationOptions) (GenerationResult, error) {
	return GenerationResult{}, errors.New("docchat: generator not configured (use WithGenerator)")
}
