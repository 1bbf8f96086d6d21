// Package store defines the persistence interfaces and sentinel errors.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/readwellapp/readwell-server/internal/domain"
)

// Sentinel errors returned by store implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
)

// UserStore manages user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByResetToken(ctx context.Context, tokenHash string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}

// SessionStore manages browser sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// BookStore manages books. CreateBook seeds the per-book satellite rows
// (appearance, sounds, default settings, builtin ambients) in the same
// transaction as the book row.
type BookStore interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context, userID string) ([]*domain.Book, error)
	ListPublishedBooks(ctx context.Context) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error
	NextBookPosition(ctx context.Context, userID string) (int, error)
	ReorderBooks(ctx context.Context, userID string, orderedIDs []string) error
	CountBooks(ctx context.Context, userID string) (int, error)
}

// ChapterStore manages chapters within a book.
type ChapterStore interface {
	CreateChapter(ctx context.Context, chapter *domain.Chapter) error
	CreateChapters(ctx context.Context, chapters []*domain.Chapter) error
	GetChapter(ctx context.Context, id string) (*domain.Chapter, error)
	ListChapters(ctx context.Context, bookID string) ([]*domain.Chapter, error)
	UpdateChapter(ctx context.Context, chapter *domain.Chapter) error
	DeleteChapter(ctx context.Context, id string) error
	NextChapterPosition(ctx context.Context, bookID string) (int, error)
	ReorderChapters(ctx context.Context, bookID string, orderedIDs []string) error
}

// BookPrefsStore manages per-book appearance, sounds, and reader defaults.
type BookPrefsStore interface {
	GetAppearance(ctx context.Context, bookID string) (*domain.BookAppearance, error)
	PutAppearance(ctx context.Context, appearance *domain.BookAppearance) error
	GetSounds(ctx context.Context, bookID string) (*domain.BookSounds, error)
	PutSounds(ctx context.Context, sounds *domain.BookSounds) error
	GetDefaultSettings(ctx context.Context, bookID string) (*domain.BookDefaultSettings, error)
	PutDefaultSettings(ctx context.Context, settings *domain.BookDefaultSettings) error
}

// AmbientStore manages per-book ambient sound entries.
type AmbientStore interface {
	CreateAmbient(ctx context.Context, ambient *domain.Ambient) error
	GetAmbient(ctx context.Context, id string) (*domain.Ambient, error)
	ListAmbients(ctx context.Context, bookID string) ([]*domain.Ambient, error)
	UpdateAmbient(ctx context.Context, ambient *domain.Ambient) error
	DeleteAmbient(ctx context.Context, id string) error
	NextAmbientPosition(ctx context.Context, bookID string) (int, error)
	ReorderAmbients(ctx context.Context, bookID string, orderedIDs []string) error
}

// FontStore manages per-user reading fonts and per-book decorative fonts.
type FontStore interface {
	CreateReadingFont(ctx context.Context, font *domain.ReadingFont) error
	CreateReadingFonts(ctx context.Context, fonts []*domain.ReadingFont) error
	GetReadingFont(ctx context.Context, id string) (*domain.ReadingFont, error)
	ListReadingFonts(ctx context.Context, userID string) ([]*domain.ReadingFont, error)
	UpdateReadingFont(ctx context.Context, font *domain.ReadingFont) error
	DeleteReadingFont(ctx context.Context, id string) error
	NextReadingFontPosition(ctx context.Context, userID string) (int, error)
	ReorderReadingFonts(ctx context.Context, userID string, orderedIDs []string) error

	GetDecorativeFont(ctx context.Context, bookID string) (*domain.DecorativeFont, error)
	PutDecorativeFont(ctx context.Context, font *domain.DecorativeFont) error
	DeleteDecorativeFont(ctx context.Context, bookID string) error
}

// SettingsStore manages per-user global reader settings.
type SettingsStore interface {
	GetGlobalSettings(ctx context.Context, userID string) (*domain.GlobalSettings, error)
	PutGlobalSettings(ctx context.Context, settings *domain.GlobalSettings) error
}

// ProgressStore manages reading progress, keyed by (user, book).
type ProgressStore interface {
	GetProgress(ctx context.Context, userID, bookID string) (*domain.ReadingProgress, error)
	PutProgress(ctx context.Context, progress *domain.ReadingProgress) error
}

// ExportStore reads and writes a user's full library tree for
// export/import and for the legacy data migration.
type ExportStore interface {
	ExportLibrary(ctx context.Context, userID string) (*domain.Library, error)
	ImportLibrary(ctx context.Context, userID string, library *domain.Library, positionOffset int) error
}

// Store is the full persistence surface.
type Store interface {
	UserStore
	SessionStore
	BookStore
	ChapterStore
	BookPrefsStore
	AmbientStore
	FontStore
	SettingsStore
	ProgressStore
	ExportStore

	Ping(ctx context.Context) error
	Close() error
}
