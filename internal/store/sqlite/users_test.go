package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/readwellapp/readwell-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := newTestUser(t, s, "Reader@Example.com")

	got, err := s.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != "Reader@Example.com" {
		t.Errorf("email = %q, original casing should be preserved", got.Email)
	}
	if got.DisplayName != "Test Reader" {
		t.Errorf("display name = %q", got.DisplayName)
	}
}

func TestCreateUserSeedsDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")

	fonts, err := s.ListReadingFonts(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(fonts) == 0 {
		t.Fatal("builtin reading fonts should be seeded")
	}
	for _, f := range fonts {
		if !f.Builtin || !f.Enabled {
			t.Errorf("seeded font %q should be builtin and enabled", f.FontKey)
		}
	}

	if _, err := s.GetGlobalSettings(ctx, u.ID); err != nil {
		t.Errorf("global settings should be seeded: %v", err)
	}
}

func TestGetUserByEmailCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := newTestUser(t, s, "Reader@Example.com")

	got, err := s.GetUserByEmail(ctx, "reader@example.COM")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("got wrong user: %s", got.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	newTestUser(t, s, "reader@example.com")

	second := newUserForTest("READER@example.com")
	err := s.CreateUser(context.Background(), second)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetUser(context.Background(), "user-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")
	u.DisplayName = "Renamed"
	u.Bio = "Reads a lot."
	u.Touch()

	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("update user: %v", err)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.DisplayName != "Renamed" || got.Bio != "Reads a lot." {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestResetTokenLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")
	expires := time.Now().UTC().Add(time.Hour)
	u.ResetTokenHash = "hash-abc"
	u.ResetTokenExpires = &expires
	u.Touch()
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetUserByResetToken(ctx, "hash-abc")
	if err != nil {
		t.Fatalf("get by reset token: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("wrong user: %s", got.ID)
	}
	if got.ResetTokenExpires == nil || !got.ResetTokenExpires.Equal(expires) {
		t.Errorf("expiry not preserved: %v", got.ResetTokenExpires)
	}

	if _, err := s.GetUserByResetToken(ctx, "hash-other"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown token, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")

	sess := newSessionForTest(u.ID, time.Hour)
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.UserID != u.ID {
		t.Errorf("user id = %s", got.UserID)
	}
	if got.IsExpired() {
		t.Error("fresh session should not be expired")
	}

	if err := s.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := s.GetSession(ctx, sess.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")
	other := newTestUser(t, s, "other@example.com")

	mine := newSessionForTest(u.ID, time.Hour)
	theirs := newSessionForTest(other.ID, time.Hour)
	if err := s.CreateSession(ctx, mine); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateSession(ctx, theirs); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteUserSessions(ctx, u.ID); err != nil {
		t.Fatalf("delete user sessions: %v", err)
	}

	if _, err := s.GetSession(ctx, mine.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("own session should be gone")
	}
	if _, err := s.GetSession(ctx, theirs.ID); err != nil {
		t.Errorf("other user's session should survive: %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")

	expired := newSessionForTest(u.ID, -time.Hour)
	active := newSessionForTest(u.ID, time.Hour)
	if err := s.CreateSession(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateSession(ctx, active); err != nil {
		t.Fatal(err)
	}

	n, err := s.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}
	if _, err := s.GetSession(ctx, active.ID); err != nil {
		t.Errorf("active session should survive: %v", err)
	}
}
