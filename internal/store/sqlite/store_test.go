package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/logger"
)

// newTestStore opens a store backed by a temp file, cleaned up with the test.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, logger.Discard())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// newTestUser inserts a user and returns it.
func newTestUser(t *testing.T, s *Store, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:       email,
		DisplayName: "Test Reader",
	}
	u.ID = id.MustGenerate("user")
	u.InitTimestamps()
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// newTestBook inserts a book (with seeded satellites) and returns it.
func newTestBook(t *testing.T, s *Store, userID, title string) *domain.Book {
	t.Helper()
	ctx := context.Background()
	pos, err := s.NextBookPosition(ctx, userID)
	if err != nil {
		t.Fatalf("next position: %v", err)
	}
	b := &domain.Book{
		UserID:      userID,
		Title:       title,
		Position:    pos,
		Visibility:  domain.VisibilityDraft,
		CoverBgMode: domain.CoverBgDefault,
	}
	b.ID = id.MustGenerate("book")
	b.InitTimestamps()
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("create book: %v", err)
	}
	return b
}

// newUserForTest builds an unsaved user with fresh ID and timestamps.
func newUserForTest(email string) *domain.User {
	u := &domain.User{
		Email:       email,
		DisplayName: "Test Reader",
	}
	u.ID = id.MustGenerate("user")
	u.InitTimestamps()
	return u
}

// newSessionForTest builds an unsaved session expiring ttl from now.
func newSessionForTest(userID string, ttl time.Duration) *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{
		ID:        id.MustGenerate("sess"),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.db.Exec(schemaSQL); err != nil {
		t.Fatalf("re-running schema should be safe: %v", err)
	}
}
