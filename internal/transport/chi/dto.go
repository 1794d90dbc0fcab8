package chi

import (
	"time"

	"github.com/kailas-cloud/docchat/internal/domain/qa"
	domses "github.com/kailas-cloud/docchat/internal/domain/session"
)

// ErrorResponseCode identifies the error class in API responses.
type ErrorResponseCode string

const (
	ErrorResponseCodeBadRequest              ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed        ErrorResponseCode = "validation_failed"
	ErrorResponseCodeEmptyDocument           ErrorResponseCode = "empty_document"
	ErrorResponseCodeExtractionFailed        ErrorResponseCode = "extraction_failed"
	ErrorResponseCodeSessionNotFound         ErrorResponseCode = "session_not_found"
	ErrorResponseCodeEmbeddingProviderError  ErrorResponseCode = "embedding_provider_error"
	ErrorResponseCodeGenerationProviderError ErrorResponseCode = "generation_provider_error"
	ErrorResponseCodeSummarizationFailed     ErrorResponseCode = "summarization_failed"
	ErrorResponseCodeRetrievalFailed         ErrorResponseCode = "retrieval_failed"
	ErrorResponseCodeInternalError           ErrorResponseCode = "internal_error"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SessionResponse describes one published session.
type SessionResponse struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	PageCount  int       `json:"page_count"`
	CharCount  int       `json:"char_count"`
	ChunkCount int       `json:"chunk_count"`
	Summary    string    `json:"summary"`
}

// SessionListResponse wraps the session listing.
type SessionListResponse struct {
	Items []SessionResponse `json:"items"`
	Total int               `json:"total"`
}

// AskRequest carries a question against a session.
type AskRequest struct {
	Question string `json:"question"`
}

// SourceItem is one chunk the answer was grounded on.
type SourceItem struct {
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}

// AnswerResponse is the result of one question.
type AnswerResponse struct {
	Answer   string       `json:"answer"`
	Sources  []SourceItem `json:"sources"`
	Grounded bool         `json:"grounded"`
}

// HealthResponse reports service health per component.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func sessionToResponse(sess *domses.Session) SessionResponse {
	return SessionResponse{
		ID:         sess.ID(),
		CreatedAt:  time.Unix(sess.CreatedAt(), 0).UTC(),
		PageCount:  sess.PageCount(),
		CharCount:  sess.CharCount(),
		ChunkCount: sess.ChunkCount(),
		Summary:    sess.Summary(),
	}
}

func answerToResponse(ans *qa.Answer) AnswerResponse {
	sources := make([]SourceItem, len(ans.Sources))
	for i, src := range ans.Sources {
		sources[i] = SourceItem{ChunkIndex: src.ChunkIndex, Text: src.Text}
	}
	return AnswerResponse{
		Answer:   ans.Text,
		Sources:  sources,
		Grounded: ans.Grounded(),
	}
}
