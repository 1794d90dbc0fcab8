package text

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/docchat/internal/domain"
)

// Chunk is an immutable slice of the normalized document text.
// Start and End are byte offsets into the normalized source; Text equals
// the source slice [Start:End).
type Chunk struct {
	Index int
	Text  string
	Start int
	End   int
}

// ChunkConfig holds chunk splitting parameters.
type ChunkConfig struct {
	// SizeChars is the maximum rendered chunk length in characters.
	SizeChars int
	// OverlapChars is the trailing context repeated at the start of the
	// next chunk, rounded down to a word boundary.
	OverlapChars int
}

// Validate checks that the configuration can make forward progress.
func (c ChunkConfig) Validate() error {
	if c.SizeChars <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d: %w", c.SizeChars, domain.ErrInvalidChunkConfig)
	}
	if c.OverlapChars < 0 {
		return fmt.Errorf("overlap must be non-negative, got %d: %w", c.OverlapChars, domain.ErrInvalidChunkConfig)
	}
	if c.OverlapChars >= c.SizeChars {
		return fmt.Errorf(
			"overlap %d must be smaller than chunk size %d: %w",
			c.OverlapChars, c.SizeChars, domain.ErrInvalidChunkConfig,
		)
	}
	return nil
}

// word is a whitespace-delimited token with its offset in the source.
type word struct {
	text  string
	start int
}

func (w word) end() int { return w.start + len(w.text) }

// Split breaks normalized text into overlapping word-bounded chunks.
//
// Words are accumulated greedily while the rendered chunk (words joined by
// single spaces) stays within cfg.SizeChars. Each new chunk is seeded with
// the longest word-aligned suffix of the previous chunk not exceeding
// cfg.OverlapChars, so words are never split across a boundary. A single
// word longer than cfg.SizeChars is emitted alone, unsplit. The final
// partial chunk is always emitted.
//
// Indices are dense, zero-based and strictly increasing. Split is a pure
// function: identical input and config produce an identical chunk sequence.
func Split(text string, cfg ChunkConfig) ([]Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	words := splitWords(text)
	if len(words) == 0 {
		return nil, nil
	}

	var chunks []Chunk
	var cur []word
	seeded := 0 // leading words of cur carried over from the previous chunk

	flush := func() {
		chunks = append(chunks, render(len(chunks), cur))
	}

	for _, w := range words {
		if len(w.text) > cfg.SizeChars {
			// Pathological token: emit unsplit as its own chunk.
			if len(cur) > seeded {
				flush()
			}
			cur = []word{w}
			flush()
			cur = nil
			seeded = 0
			continue
		}

		if !fits(cur, w, cfg.SizeChars) {
			if len(cur) > seeded {
				flush()
				cur = overlapSuffix(cur, cfg.OverlapChars)
				seeded = len(cur)
			}
			// Shrink the seed until the word fits; cur may become empty.
			for len(cur) > 0 && !fits(cur, w, cfg.SizeChars) {
				cur = cur[1:]
				seeded--
			}
		}
		cur = append(cur, w)
	}

	if len(cur) > seeded {
		flush()
	}

	return chunks, nil
}

// fits reports whether appending w keeps the rendered chunk within limit.
func fits(cur []word, w word, limit int) bool {
	if len(cur) == 0 {
		return len(w.text) <= limit
	}
	return renderedLen(cur)+1+len(w.text) <= limit
}

// renderedLen is the length of the words joined by single spaces.
func renderedLen(ws []word) int {
	if len(ws) == 0 {
		return 0
	}
	n := len(ws) - 1
	for _, w := range ws {
		n += len(w.text)
	}
	return n
}

// overlapSuffix returns the longest suffix of ws whose rendered length does
// not exceed maxChars. A trailing word longer than maxChars yields an empty
// suffix rather than a split word.
func overlapSuffix(ws []word, maxChars int) []word {
	take := 0
	length := 0
	for i := len(ws) - 1; i >= 0; i-- {
		next := length + len(ws[i].text)
		if take > 0 {
			next++ // joining space
		}
		if next > maxChars {
			break
		}
		length = next
		take++
	}
	if take == 0 {
		return nil
	}
	return ws[len(ws)-take:]
}

func render(index int, ws []word) Chunk {
	texts := make([]string, len(ws))
	for i, w := range ws {
		texts[i] = w.text
	}
	return Chunk{
		Index: index,
		Text:  strings.Join(texts, " "),
		Start: ws[0].start,
		End:   ws[len(ws)-1].end(),
	}
}

// splitWords tokenizes on whitespace, keeping byte offsets into the source.
func splitWords(s string) []word {
	var words []word
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, word{text: s[start:i], start: start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, word{text: s[start:], start: start})
	}
	return words
}
