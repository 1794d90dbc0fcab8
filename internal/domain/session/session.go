package session

import (
	"fmt"
	"regexp"
	"time"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Session is the document session aggregate (immutable value object).
// One session owns exactly one uploaded document, its chunk collection in
// the vector store, and its summary. A session exists from successful
// ingest until eviction.
type Session struct {
	id         string
	createdAt  int64
	pageCount  int
	charCount  int
	chunkCount int
	summary    string
}

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("session ID is required")
	}
	if len(id) > 64 {
		return fmt.Errorf("session ID too long (max 64)")
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf("session ID must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// New validates and creates a Session stamped with the current time.
// ID: ^[a-zA-Z0-9_-]+$, 1-64 chars. Counts must be positive.
func New(id string, pageCount, charCount, chunkCount int, summary string) (Session, error) {
	if err := validateID(id); err != nil {
		return Session{}, err
	}
	if pageCount <= 0 {
		return Session{}, fmt.Errorf("page count must be positive")
	}
	if charCount <= 0 {
		return Session{}, fmt.Errorf("char count must be positive")
	}
	if chunkCount <= 0 {
		return Session{}, fmt.Errorf("chunk count must be positive")
	}

	return Session{
		id:         id,
		createdAt:  time.Now().Unix(),
		pageCount:  pageCount,
		charCount:  charCount,
		chunkCount: chunkCount,
		summary:    summary,
	}, nil
}

// Reconstruct creates a Session without validation (storage hydration).
func Reconstruct(id string, createdAt int64, pageCount, charCount, chunkCount int, summary string) Session {
	return Session{
		id:         id,
		createdAt:  createdAt,
		pageCount:  pageCount,
		charCount:  charCount,
		chunkCount: chunkCount,
		summary:    summary,
	}
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns the ingest time as a Unix timestamp.
func (s *Session) CreatedAt() int64 { return s.createdAt }

// PageCount returns the number of pages in the source document.
func (s *Session) PageCount() int { return s.pageCount }

// CharCount returns the character count of the normalized document text.
func (s *Session) CharCount() int { return s.charCount }

// ChunkCount returns the number of chunks stored for this session.
func (s *Session) ChunkCount() int { return s.chunkCount }

// Summary returns the document-level synopsis produced at ingest.
func (s *Session) Summary() string { return s.summary }
