package text

import (
	"strings"

	"github.com/kailas-cloud/docchat/internal/domain"
)

// Normalize collapses whitespace runs in each page to single spaces and
// joins pages with one space. Page boundaries carry no meaning downstream.
// Returns domain.ErrEmptyDocument if no page yields any text.
func Normalize(pages []string) (string, error) {
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		fields := strings.Fields(page)
		if len(fields) == 0 {
			continue
		}
		parts = append(parts, strings.Join(fields, " "))
	}

	if len(parts) == 0 {
		return "", domain.ErrEmptyDocument
	}

	return strings.Join(parts, " "), nil
}
