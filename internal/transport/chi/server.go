package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	askuc "github.com/kailas-cloud/docchat/internal/usecase/ask"
	healthuc "github.com/kailas-cloud/docchat/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/docchat/internal/usecase/ingest"
	sessionuc "github.com/kailas-cloud/docchat/internal/usecase/session"
)

// uploadFieldName is the multipart form field carrying the PDF.
const uploadFieldName = "file"

// PageExtractor pulls per-page text out of an uploaded document.
type PageExtractor interface {
	Pages(r io.Reader) ([]string, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API: document upload, session registry and Q&A.
type Server struct {
	ingest         *ingestuc.Service
	ask            *askuc.Service
	sessions       *sessionuc.Service
	health         *healthuc.Service
	extractor      PageExtractor
	maxUploadBytes int64
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. maxUploadBytes caps the document
// upload size; zero means no explicit cap.
func NewServer(
	ingest *ingestuc.Service,
	ask *askuc.Service,
	sessions *sessionuc.Service,
	health *healthuc.Service,
	extractor PageExtractor,
	maxUploadBytes int64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:         ingest,
		ask:            ask,
		sessions:       sessions,
		health:         health,
		extractor:      extractor,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownSession, http.StatusNotFound, ErrorResponseCodeSessionNotFound),
		sentinelHandler(domain.ErrEmptyDocument, http.StatusUnprocessableEntity, ErrorResponseCodeEmptyDocument),
		sentinelHandler(domain.ErrExtraction, http.StatusBadRequest, ErrorResponseCodeExtractionFailed),
		sentinelHandler(domain.ErrEmbeddingProvider,
			http.StatusBadGateway, ErrorResponseCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrGenerationProvider,
			http.StatusBadGateway, ErrorResponseCodeGenerationProviderError),
		sentinelHandler(domain.ErrSummarization, http.StatusBadGateway, ErrorResponseCodeSummarizationFailed),
		sentinelHandler(domain.ErrRetrieval, http.StatusInternalServerError, ErrorResponseCodeRetrievalFailed),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/v1/documents", s.UploadDocument)
	r.Get("/api/v1/sessions", s.ListSessions)
	r.Get("/api/v1/sessions/{session}", s.GetSession)
	r.Delete("/api/v1/sessions/{session}", s.DeleteSession)
	r.Post("/api/v1/sessions/{session}/ask", s.AskQuestion)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// UploadDocument handles POST /documents. The PDF arrives as multipart
// form data; a published session is returned on success.
func (s *Server) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}

	file, _, err := r.FormFile(uploadFieldName)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest,
			"multipart field "+uploadFieldName+" is required: "+err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	pages, err := s.extractor.Pages(file)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sess, err := s.ingest.Ingest(r.Context(), pages)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, sessionToResponse(&sess))
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SessionResponse, len(sessions))
	for i := range sessions {
		items[i] = sessionToResponse(&sessions[i])
	}

	writeJSON(w, http.StatusOK, SessionListResponse{Items: items, Total: len(items)})
}

// GetSession handles GET /sessions/{session}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToResponse(&sess))
}

// DeleteSession handles DELETE /sessions/{session}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Evict(r.Context(), chi.URLParam(r, "session")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AskQuestion handles POST /sessions/{session}/ask.
func (s *Server) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "Question is required")
		return
	}

	ans, err := s.ask.Ask(r.Context(), chi.URLParam(r, "session"), req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToResponse(&ans))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownSession,
		domain.ErrEmptyDocument,
		domain.ErrExtraction,
		domain.ErrEmbeddingProvider,
		domain.ErrGenerationProvider,
		domain.ErrSummarization,
		domain.ErrRetrieval,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
