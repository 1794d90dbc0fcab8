package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/docchat/internal/domain"
)

// Extractor pulls per-page plain text out of PDF uploads.
type Extractor struct{}

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Pages reads the entire content of r and returns one string per page,
// in document order. Pages without extractable text come back empty;
// unreadable or encrypted files fail with domain.ErrExtraction.
func (e *Extractor) Pages(r io.Reader) (pages []string, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w: %w", domain.ErrExtraction, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("empty upload: %w", domain.ErrExtraction)
	}

	// The pdf library panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf: %w: %v", domain.ErrExtraction, rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w: %w", domain.ErrExtraction, err)
	}

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	return pages, nil
}
