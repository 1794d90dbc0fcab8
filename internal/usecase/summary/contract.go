package summary

import (
	"context"

	"github.com/kailas-cloud/docchat/internal/domain"
)

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (domain.GenerationResult, error)
}
