package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/docchat/internal/domain"
)

const defaultSegmentChars = 8000

// Config holds summarization settings.
type Config struct {
	// SegmentChars is the largest text handed to the generator in one
	// call. Longer documents are summarized segment by segment, then
	// the partial summaries are folded into one.
	SegmentChars int
	Temperature  float32
	MaxTokens    int
}

// Service produces document-level synopses via a text generator.
type Service struct {
	gen Generator
	cfg Config
}

// New creates a summary service.
func New(gen Generator, cfg Config) *Service {
	if cfg.SegmentChars <= 0 {
		cfg.SegmentChars = defaultSegmentChars
	}
	return &Service{gen: gen, cfg: cfg}
}

// Summarize produces a short synopsis of the normalized document text.
// Documents that fit in one segment take a single generator call, longer
// ones are mapped per segment and folded.
func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("nothing to summarize: %w", domain.ErrSummarization)
	}

	if len(text) <= s.cfg.SegmentChars {
		return s.generate(ctx, directPrompt(text))
	}

	segments := segment(text, s.cfg.SegmentChars)
	partials := make([]string, 0, len(segments))
	for i, seg := range segments {
		partial, err := s.generate(ctx, segmentPrompt(seg))
		if err != nil {
			return "", fmt.Errorf("summarize segment %d: %w", i, err)
		}
		partials = append(partials, partial)
	}

	return s.generate(ctx, foldPrompt(strings.Join(partials, "\n")))
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	res, err := s.gen.Generate(ctx, prompt, domain.GenerationOptions{
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSummarization, err)
	}
	out := strings.TrimSpace(res.Text)
	if out == "" {
		return "", fmt.Errorf("generator returned empty summary: %w", domain.ErrSummarization)
	}
	return out, nil
}

// segment cuts text into pieces of at most maxChars, breaking on word
// boundaries where possible.
func segment(text string, maxChars int) []string {
	var segments []string
	for len(text) > maxChars {
		cut := strings.LastIndexByte(text[:maxChars], ' ')
		if cut <= 0 {
			cut = maxChars
		}
		segments = append(segments, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		segments = append(segments, text)
	}
	return segments
}

func directPrompt(text string) string {
	return "Summarize the following document in a few sentences. " +
		"Cover the main topic and key points.\n\nDocument:\n" + text + "\n\nSummary:"
}

func segmentPrompt(text string) string {
	return "Summarize the following part of a document in a few sentences.\n\n" +
		"Part:\n" + text + "\n\nSummary:"
}

func foldPrompt(partials string) string {
	return "The following are summaries of consecutive parts of one document. " +
		"Combine them into a single coherent summary of a few sentences.\n\n" +
		"Part summaries:\n" + partials + "\n\nCombined summary:"
}
