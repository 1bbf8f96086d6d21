package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/objstore"
	"github.com/readwellapp/readwell-server/internal/store"
	"github.com/readwellapp/readwell-server/internal/store/sqlite"
)

// env wires every service against a real on-disk store and a filesystem
// object store, both rooted in the test's temp directory.
type env struct {
	store    store.Store
	storage  *objstore.FS
	sessions *SessionService
	auth     *AuthService
	books    *BookService
	chapters *ChapterService
	prefs    *BookPrefsService
	ambients *AmbientService
	fonts    *FontService
	settings *SettingsService
	progress *ProgressService
	uploads  *UploadService
	library  *LibraryService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := logger.Discard()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	storage, err := objstore.NewFS(t.TempDir(), "/uploads")
	require.NoError(t, err)

	sessions := NewSessionService(st, time.Hour, log)
	books := NewBookService(st, log)

	return &env{
		store:    st,
		storage:  storage,
		sessions: sessions,
		auth:     NewAuthService(st, sessions, log),
		books:    books,
		chapters: NewChapterService(st, books, storage, log),
		prefs:    NewBookPrefsService(st, books, log),
		ambients: NewAmbientService(st, books, storage, log),
		fonts:    NewFontService(st, books, storage, log),
		settings: NewSettingsService(st, log),
		progress: NewProgressService(st, books, log),
		uploads:  NewUploadService(st, books, storage, log),
		library:  NewLibraryService(st, log),
	}
}

func (e *env) registerUser(t *testing.T, email string) *domain.User {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterRequest{
		Email:       email,
		Password:    "correct horse battery",
		DisplayName: "Test Reader",
	})
	require.NoError(t, err)
	return res.User
}

func (e *env) createBook(t *testing.T, userID, title string) *domain.Book {
	t.Helper()
	book, err := e.books.Create(context.Background(), userID, CreateBookRequest{Title: title})
	require.NoError(t, err)
	return book
}

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
