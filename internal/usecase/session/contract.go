package session

import (
	"context"

	domses "github.com/kailas-cloud/docchat/internal/domain/session"
)

// Repository defines the storage contract for the session registry.
type Repository interface {
	Get(ctx context.Context, id string) (domses.Session, error)
	List(ctx context.Context) ([]domses.Session, error)
	Evict(ctx context.Context, id string) error
}
