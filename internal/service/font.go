package service

import (
	"context"
	"fmt"

	"github.com/readwellapp/readwell-server/internal/domain"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/objstore"
	"github.com/readwellapp/readwell-server/internal/store"
)

// FontService manages per-user reading fonts and per-book decorative fonts.
type FontService struct {
	store   store.Store
	books   *BookService
	storage objstore.Storage
	log     *logger.Logger
}

// NewFontService creates a font service.
func NewFontService(st store.Store, books *BookService, storage objstore.Storage, log *logger.Logger) *FontService {
	return &FontService{store: st, books: books, storage: storage, log: log}
}

// CreateReadingFontRequest contains new custom reading font data.
type CreateReadingFontRequest struct {
	FontKey string `json:"fontKey" validate:"required,min=1,max=64,alphanum"`
	Label   string `json:"label" validate:"required,max=80"`
	Family  string `json:"family" validate:"required,max=200"`
	FileURL string `json:"fileUrl" validate:"max=2048,safeurl"`
}

// UpdateReadingFontRequest contains the editable reading font fields. Nil
// fields are left unchanged.
type UpdateReadingFontRequest struct {
	Label   *string `json:"label,omitempty" validate:"omitempty,min=1,max=80"`
	Family  *string `json:"family,omitempty" validate:"omitempty,min=1,max=200"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// PutDecorativeFontRequest sets a book's decorative display font.
type PutDecorativeFontRequest struct {
	Name    string `json:"name" validate:"required,max=80"`
	FileURL string `json:"fileUrl" validate:"required,max=2048,safeurl"`
}

// ListReadingFonts returns the caller's reading fonts in display order.
func (s *FontService) ListReadingFonts(ctx context.Context, userID string) ([]*domain.ReadingFont, error) {
	fonts, err := s.store.ListReadingFonts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reading fonts: %w", err)
	}
	return fonts, nil
}

// CreateReadingFont appends a custom reading font.
func (s *FontService) CreateReadingFont(ctx context.Context, userID string, req CreateReadingFontRequest) (*domain.ReadingFont, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	position, err := s.store.NextReadingFontPosition(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("next font position: %w", err)
	}

	font := &domain.ReadingFont{
		UserID:   userID,
		FontKey:  req.FontKey,
		Label:    req.Label,
		Family:   req.Family,
		FileURL:  req.FileURL,
		Enabled:  true,
		Position: position,
	}
	font.ID, err = id.Generate("font")
	if err != nil {
		return nil, fmt.Errorf("generate font ID: %w", err)
	}
	font.InitTimestamps()

	if err := s.store.CreateReadingFont(ctx, font); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("you already have a font with that key")
		}
		return nil, fmt.Errorf("create reading font: %w", err)
	}
	return font, nil
}

// UpdateReadingFont patches a reading font.
func (s *FontService) UpdateReadingFont(ctx context.Context, userID, fontID string, req UpdateReadingFontRequest) (*domain.ReadingFont, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	font, err := s.requireOwnedFont(ctx, userID, fontID)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		font.Label = *req.Label
	}
	if req.Family != nil {
		if font.Builtin {
			return nil, domainerrors.Forbidden("builtin fonts keep their family")
		}
		font.Family = *req.Family
	}
	if req.Enabled != nil {
		font.Enabled = *req.Enabled
	}
	font.Touch()

	if err := s.store.UpdateReadingFont(ctx, font); err != nil {
		return nil, notFoundOr(err, "font")
	}
	return font, nil
}

// DeleteReadingFont removes a custom reading font and its uploaded file.
// Builtin fonts can be disabled but never deleted.
func (s *FontService) DeleteReadingFont(ctx context.Context, userID, fontID string) error {
	font, err := s.requireOwnedFont(ctx, userID, fontID)
	if err != nil {
		return err
	}
	if font.Builtin {
		return domainerrors.Forbidden("builtin fonts cannot be deleted")
	}

	if err := s.store.DeleteReadingFont(ctx, fontID); err != nil {
		return notFoundOr(err, "font")
	}
	if font.FileURL != "" {
		if err := s.storage.Delete(ctx, font.FileURL); err != nil {
			s.log.Warn("delete font file", "font_id", fontID, "error", err)
		}
	}
	return nil
}

// ReorderReadingFonts renumbers the caller's fonts to the given full ID list.
func (s *FontService) ReorderReadingFonts(ctx context.Context, userID string, orderedIDs []string) ([]*domain.ReadingFont, error) {
	if len(orderedIDs) == 0 {
		return nil, domainerrors.Validation("order must not be empty")
	}
	if err := s.store.ReorderReadingFonts(ctx, userID, orderedIDs); err != nil {
		if domainerrors.Is(err, store.ErrConflict) {
			return nil, domainerrors.Conflict("order does not match the current set of fonts")
		}
		return nil, fmt.Errorf("reorder fonts: %w", err)
	}
	return s.ListReadingFonts(ctx, userID)
}

// GetDecorativeFont returns a book's decorative font, or a 404 if none is set.
func (s *FontService) GetDecorativeFont(ctx context.Context, userID, bookID string) (*domain.DecorativeFont, error) {
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}
	font, err := s.store.GetDecorativeFont(ctx, bookID)
	if err != nil {
		return nil, notFoundOr(err, "decorative font")
	}
	return font, nil
}

// PutDecorativeFont sets or replaces a book's decorative font.
func (s *FontService) PutDecorativeFont(ctx context.Context, userID, bookID string, req PutDecorativeFontRequest) (*domain.DecorativeFont, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}

	now := nowUTC()
	font := &domain.DecorativeFont{
		BookID:    bookID,
		Name:      req.Name,
		FileURL:   req.FileURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.PutDecorativeFont(ctx, font); err != nil {
		return nil, fmt.Errorf("put decorative font: %w", err)
	}
	return font, nil
}

// DeleteDecorativeFont removes a book's decorative font and its file.
func (s *FontService) DeleteDecorativeFont(ctx context.Context, userID, bookID string) error {
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return err
	}
	font, err := s.store.GetDecorativeFont(ctx, bookID)
	if err != nil {
		return notFoundOr(err, "decorative font")
	}

	if err := s.store.DeleteDecorativeFont(ctx, bookID); err != nil {
		return notFoundOr(err, "decorative font")
	}
	if font.FileURL != "" {
		if err := s.storage.Delete(ctx, font.FileURL); err != nil {
			s.log.Warn("delete decorative font file", "book_id", bookID, "error", err)
		}
	}
	return nil
}

func (s *FontService) requireOwnedFont(ctx context.Context, userID, fontID string) (*domain.ReadingFont, error) {
	font, err := s.store.GetReadingFont(ctx, fontID)
	if err != nil {
		return nil, notFoundOr(err, "font")
	}
	if font.UserID != userID {
		return nil, domainerrors.Forbidden("this font belongs to another user")
	}
	return font, nil
}
