package service

import (
	"context"
	"fmt"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/store"
)

// ProgressService manages per-user-per-book reading progress snapshots.
// Writes are last-write-wins; there is no merging.
type ProgressService struct {
	store store.Store
	books *BookService
	log   *logger.Logger
}

// NewProgressService creates a progress service.
func NewProgressService(st store.Store, books *BookService, log *logger.Logger) *ProgressService {
	return &ProgressService{store: st, books: books, log: log}
}

// PutProgressRequest is the full reader snapshot the client syncs.
type PutProgressRequest struct {
	Page          int     `json:"page" validate:"gte=0"`
	Font          string  `json:"font" validate:"max=64"`
	FontSize      int     `json:"fontSize" validate:"gte=0,lte=72"`
	Theme         string  `json:"theme" validate:"omitempty,oneof=light dark"`
	SoundEnabled  bool    `json:"soundEnabled"`
	SoundVolume   float64 `json:"soundVolume" validate:"gte=0,lte=1"`
	AmbientType   string  `json:"ambientType" validate:"max=64"`
	AmbientVolume float64 `json:"ambientVolume" validate:"gte=0,lte=1"`
}

// Get returns the caller's progress for a book, or a 404 if none exists yet.
func (s *ProgressService) Get(ctx context.Context, userID, bookID string) (*domain.ReadingProgress, error) {
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}
	progress, err := s.store.GetProgress(ctx, userID, bookID)
	if err != nil {
		return nil, notFoundOr(err, "progress")
	}
	return progress, nil
}

// Put upserts the caller's progress for a book.
func (s *ProgressService) Put(ctx context.Context, userID, bookID string, req PutProgressRequest) (*domain.ReadingProgress, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}

	progress := &domain.ReadingProgress{
		UserID:        userID,
		BookID:        bookID,
		Page:          req.Page,
		Font:          req.Font,
		FontSize:      req.FontSize,
		Theme:         req.Theme,
		SoundEnabled:  req.SoundEnabled,
		SoundVolume:   req.SoundVolume,
		AmbientType:   req.AmbientType,
		AmbientVolume: req.AmbientVolume,
		UpdatedAt:     nowUTC(),
	}
	if err := s.store.PutProgress(ctx, progress); err != nil {
		return nil, fmt.Errorf("put progress: %w", err)
	}
	return progress, nil
}
