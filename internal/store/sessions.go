package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/readtrailapp/readtrail-server/internal/domain"
)

// CreateSession persists a new refresh token session.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	if err := s.Sessions.Create(ctx, session.ID, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID. Expired sessions are reported
// as ErrSessionExpired.
func (s *Store) GetSession(_ context.Context, id string) (*domain.Session, error) {
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

// GetSessionByRefreshToken looks up a session by its refresh token
// hash. This drives the token refresh flow.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	session, err := s.Sessions.GetByIndex(ctx, "token", tokenHash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("lookup session by token: %w", err)
	}

	if session.Expired(time.Now()) {
		return nil, ErrSessionExpired
	}

	return session, nil
}

// UpdateSession saves a session after token rotation or activity
// updates. The token index follows the new hash automatically.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	if err := s.Sessions.Update(ctx, session.ID, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// DeleteSession removes a session (logout). Deleting a missing session
// is not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ListUserSessions returns the user's sessions that have not expired.
func (s *Store) ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error) {
	now := time.Now()
	var sessions []*domain.Session
	for session, err := range s.Sessions.ListByIndex(ctx, "user", userID) {
		if err != nil {
			return nil, fmt.Errorf("list user sessions: %w", err)
		}
		if session.Expired(now) {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// DeleteAllUserSessions removes every session for a user. Used when a
// password changes to force re-authentication on all devices.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	for session, err := range s.Sessions.ListByIndex(ctx, "user", userID) {
		if err != nil {
			return fmt.Errorf("list sessions for deletion: %w", err)
		}
		if err := s.DeleteSession(ctx, session.ID); err != nil {
			return fmt.Errorf("delete session %s: %w", session.ID, err)
		}
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions and returns how
// many were deleted. Meant to run periodically.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	now := time.Now()
	var expiredIDs []string

	for session, err := range s.Sessions.List(ctx) {
		if err != nil {
			return 0, fmt.Errorf("find expired sessions: %w", err)
		}
		if session.Expired(now) {
			expiredIDs = append(expiredIDs, session.ID)
		}
	}

	for _, id := range expiredIDs {
		if err := s.DeleteSession(ctx, id); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to delete expired session", "session_id", id, "error", err)
			}
		}
	}

	return len(expiredIDs), nil
}
