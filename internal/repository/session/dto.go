package session

import (
	"fmt"
	"strconv"

	domses "github.com/kailas-cloud/docchat/internal/domain/session"
)

// sessionToHash converts a domain Session to a map for HSET.
func sessionToHash(s domses.Session) map[string]string {
	return map[string]string{
		"created_at":  strconv.FormatInt(s.CreatedAt(), 10),
		"page_count":  strconv.Itoa(s.PageCount()),
		"char_count":  strconv.Itoa(s.CharCount()),
		"chunk_count": strconv.Itoa(s.ChunkCount()),
		"summary":     s.Summary(),
	}
}

// sessionFromHash hydrates a domain Session from an HGETALL result map.
func sessionFromHash(id string, m map[string]string) (domses.Session, error) {
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domses.Session{}, fmt.Errorf("invalid created_at: %w", err)
	}

	pageCount := parseCount(m, "page_count")
	charCount := parseCount(m, "char_count")
	chunkCount := parseCount(m, "chunk_count")

	return domses.Reconstruct(id, createdAt, pageCount, charCount, chunkCount, m["summary"]), nil
}

func parseCount(m map[string]string, field string) int {
	n, err := strconv.Atoi(m[field])
	if err != nil {
		return 0
	}
	return n
}
