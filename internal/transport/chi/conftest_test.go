package chi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/qa"
	domses "github.com/kailas-cloud/docchat/internal/domain/session"
	"github.com/kailas-cloud/docchat/internal/domain/text"
	askuc "github.com/kailas-cloud/docchat/internal/usecase/ask"
	healthuc "github.com/kailas-cloud/docchat/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/docchat/internal/usecase/ingest"
	sessionuc "github.com/kailas-cloud/docchat/internal/usecase/session"
)

type stubExtractor struct {
	pagesFn func(r io.Reader) ([]string, error)
}

func (s *stubExtractor) Pages(r io.Reader) ([]string, error) {
	return s.pagesFn(r)
}

type stubSessionRepo struct {
	stageFn   func(ctx context.Context, id string) error
	publishFn func(ctx context.Context, sess domses.Session) error
	discardFn func(ctx context.Context, id string) error
	getFn     func(ctx context.Context, id string) (domses.Session, error)
	listFn    func(ctx context.Context) ([]domses.Session, error)
	evictFn   func(ctx context.Context, id string) error
}

func (s *stubSessionRepo) Stage(ctx context.Context, id string) error { return s.stageFn(ctx, id) }

func (s *stubSessionRepo) Publish(ctx context.Context, sess domses.Session) error {
	return s.publishFn(ctx, sess)
}

func (s *stubSessionRepo) Discard(ctx context.Context, id string) error {
	return s.discardFn(ctx, id)
}

func (s *stubSessionRepo) Get(ctx context.Context, id string) (domses.Session, error) {
	return s.getFn(ctx, id)
}

func (s *stubSessionRepo) List(ctx context.Context) ([]domses.Session, error) {
	return s.listFn(ctx)
}

func (s *stubSessionRepo) Evict(ctx context.Context, id string) error { return s.evictFn(ctx, id) }

type stubChunkRepo struct {
	insertFn func(ctx context.Context, sessionID string, chunks []text.Chunk, vectors [][]float32) error
}

func (s *stubChunkRepo) InsertBatch(
	ctx context.Context, sessionID string, chunks []text.Chunk, vectors [][]float32,
) error {
	return s.insertFn(ctx, sessionID, chunks, vectors)
}

type stubEmbedder struct {
	embedFn      func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	batchEmbedFn func(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return s.embedFn(ctx, text)
}

func (s *stubEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	return s.batchEmbedFn(ctx, texts)
}

type stubSummarizer struct {
	summarizeFn func(ctx context.Context, text string) (string, error)
}

func (s *stubSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.summarizeFn(ctx, text)
}

type stubRetriever struct {
	topKFn func(ctx context.Context, sessionID string, vector []float32, k int) ([]qa.Retrieved, error)
}

func (s *stubRetriever) TopK(
	ctx context.Context, sessionID string, vector []float32, k int,
) ([]qa.Retrieved, error) {
	return s.topKFn(ctx, sessionID, vector, k)
}

type stubGenerator struct {
	generateFn func(ctx context.Context, prompt string, opts domain.GenerationOptions) (domain.GenerationResult, error)
}

func (s *stubGenerator) Generate(
	ctx context.Context, prompt string, opts domain.GenerationOptions,
) (domain.GenerationResult, error) {
	return s.generateFn(ctx, prompt, opts)
}

type stubPinger struct {
	pingFn func(ctx context.Context) error
}

func (s *stubPinger) Ping(ctx context.Context) error { return s.pingFn(ctx) }

// serverDeps bundles the stubbed collaborators behind a test server.
type serverDeps struct {
	extractor *stubExtractor
	sessions  *stubSessionRepo
	chunks    *stubChunkRepo
	embedder  *stubEmbedder
	summarize *stubSummarizer
	retriever *stubRetriever
	generator *stubGenerator
	pinger    *stubPinger
}

// newDeps returns collaborators with permissive happy-path defaults.
func newDeps() *serverDeps {
	return &serverDeps{
		extractor: &stubExtractor{
			pagesFn: func(io.Reader) ([]string, error) {
				return []string{"the first page of a small test document"}, nil
			},
		},
		sessions: &stubSessionRepo{
			stageFn:   func(context.Context, string) error { return nil },
			publishFn: func(context.Context, domses.Session) error { return nil },
			discardFn: func(context.Context, string) error { return nil },
			getFn: func(_ context.Context, id string) (domses.Session, error) {
				return domses.Reconstruct(id, 1700000000, 3, 4200, 12, "a short synopsis"), nil
			},
			listFn:  func(context.Context) ([]domses.Session, error) { return nil, nil },
			evictFn: func(context.Context, string) error { return nil },
		},
		chunks: &stubChunkRepo{
			insertFn: func(context.Context, string, []text.Chunk, [][]float32) error { return nil },
		},
		embedder: &stubEmbedder{
			embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
				return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}, TotalTokens: 3}, nil
			},
			batchEmbedFn: func(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
				vectors := make([][]float32, len(texts))
				for i := range vectors {
					vectors[i] = []float32{0.1, 0.2}
				}
				return domain.BatchEmbeddingResult{Embeddings: vectors, TotalTokens: len(texts)}, nil
			},
		},
		summarize: &stubSummarizer{
			summarizeFn: func(context.Context, string) (string, error) { return "a short synopsis", nil },
		},
		retriever: &stubRetriever{
			topKFn: func(context.Context, string, []float32, int) ([]qa.Retrieved, error) {
				return []qa.Retrieved{
					{ChunkIndex: 2, Text: "second chunk", Score: 0.9},
					{ChunkIndex: 0, Text: "first chunk", Score: 0.4},
				}, nil
			},
		},
		generator: &stubGenerator{
			generateFn: func(context.Context, string, domain.GenerationOptions) (domain.GenerationResult, error) {
				return domain.GenerationResult{Text: "the answer", TotalTokens: 42}, nil
			},
		},
		pinger: &stubPinger{pingFn: func(context.Context) error { return nil }},
	}
}

func newTestRouter(t *testing.T, deps *serverDeps) chi.Router {
	t.Helper()
	logger := zap.NewNop()

	ingestSvc := ingestuc.New(
		deps.sessions, deps.chunks, deps.embedder, deps.summarize,
		text.ChunkConfig{SizeChars: 1000, OverlapChars: 100}, logger,
	)
	askSvc := askuc.New(
		deps.sessions, deps.retriever, deps.embedder, deps.generator,
		askuc.Config{TopK: 4}, logger,
	)
	sessionSvc := sessionuc.New(deps.sessions, logger)
	healthSvc := healthuc.New(deps.pinger, nil, nil)

	srv := NewServer(ingestSvc, askSvc, sessionSvc, healthSvc, deps.extractor, 1<<20, logger)
	r := chi.NewRouter()
	srv.Register(r)
	return r
}

// multipartUpload builds a multipart body with a single file field.
func multipartUpload(t *testing.T, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(uploadFieldName, "doc.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
