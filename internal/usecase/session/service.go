package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domses "github.com/kailas-cloud/docchat/internal/domain/session"
)

// Service exposes the session registry: lookup, listing and eviction.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a session service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get retrieves a session by ID.
func (s *Service) Get(ctx context.Context, id string) (domses.Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return domses.Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// List returns all sessions, oldest first.
func (s *Service) List(ctx context.Context) ([]domses.Session, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Evict removes a session with everything it owns.
func (s *Service) Evict(ctx context.Context, id string) error {
	if err := s.repo.Evict(ctx, id); err != nil {
		return fmt.Errorf("evict session: %w", err)
	}
	s.logger.Info("session evicted", zap.String("session_id", id))
	return nil
}
