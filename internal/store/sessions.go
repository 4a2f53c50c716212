package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/eflixapp/eflix-server/internal/domain"
	apperrors "github.com/eflixapp/eflix-server/internal/errors"
)

// Sentinel errors for session operations.
var (
	ErrSessionNotFound = apperrors.ErrUnauthorized.WithMessage("session not found")
	ErrSessionExpired  = apperrors.ErrUnauthorized.WithMessage("session expired")
)

// CreateSession persists a new session record.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(sessionPrefix + session.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check session exists: %w", err)
	}
	if exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}

	return s.set(key, session)
}

// GetSession retrieves a live session by ID. Expired sessions are
// reported as such, not returned.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(sessionPrefix + id)

	var session domain.Session
	if err := s.get(key, &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(time.Now()) {
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// DeleteSession revokes a session. Deleting an absent session is a
// no-op; sign-out is idempotent.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete([]byte(sessionPrefix + id))
}
