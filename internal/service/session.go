package service

import (
	"context"
	"fmt"
	"time"

	"github.com/readwellapp/readwell-server/internal/domain"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/store"
)

// SessionService manages server-side login sessions.
type SessionService struct {
	store  store.Store
	maxAge time.Duration
	log    *logger.Logger
}

// NewSessionService creates a session service. maxAge is the lifetime of a
// newly created session.
func NewSessionService(st store.Store, maxAge time.Duration, log *logger.Logger) *SessionService {
	return &SessionService{store: st, maxAge: maxAge, log: log}
}

// Create starts a new session for a user.
func (s *SessionService) Create(ctx context.Context, userID string) (*domain.Session, error) {
	sessionID, err := id.Generate("sess")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.maxAge),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Verify resolves a session ID to a live session. Expired sessions are
// deleted on sight.
func (s *SessionService) Verify(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if domainerrors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.Unauthorized("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.IsExpired() {
		if err := s.store.DeleteSession(ctx, sessionID); err != nil {
			s.log.Warn("delete expired session", "error", err)
		}
		return nil, domainerrors.Unauthorized("session expired")
	}
	return session, nil
}

// Delete ends a single session. Deleting an unknown session is not an error.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	return s.store.DeleteSession(ctx, sessionID)
}

// DeleteAll ends every session of a user.
func (s *SessionService) DeleteAll(ctx context.Context, userID string) error {
	return s.store.DeleteUserSessions(ctx, userID)
}

// StartCleanup prunes expired sessions on an interval until ctx is done.
func (s *SessionService) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.store.DeleteExpiredSessions(ctx, time.Now())
				if err != nil {
					s.log.Warn("session cleanup failed", "error", err)
					continue
				}
				if n > 0 {
					s.log.Debug("pruned expired sessions", "count", n)
				}
			}
		}
	}()
}
