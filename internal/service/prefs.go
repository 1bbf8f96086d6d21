package service

import (
	"context"
	"fmt"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/store"
)

// BookPrefsService manages the per-book appearance, sounds, and reader
// default records. All three exist from book creation, so reads never 404
// for an owned book.
type BookPrefsService struct {
	store store.Store
	books *BookService
	log   *logger.Logger
}

// NewBookPrefsService creates a book preferences service.
func NewBookPrefsService(st store.Store, books *BookService, log *logger.Logger) *BookPrefsService {
	return &BookPrefsService{store: st, books: books, log: log}
}

// ThemeAppearancePatch contains the editable fields of one theme block.
type ThemeAppearancePatch struct {
	CoverBgStart     *string `json:"coverBgStart,omitempty" validate:"omitempty,hexcolor"`
	CoverBgEnd       *string `json:"coverBgEnd,omitempty" validate:"omitempty,hexcolor"`
	CoverText        *string `json:"coverText,omitempty" validate:"omitempty,hexcolor"`
	CoverBgImageURL  *string `json:"coverBgImageUrl,omitempty" validate:"omitempty,max=2048,safeurl"`
	PageTexture      *string `json:"pageTexture,omitempty" validate:"omitempty,oneof=default none custom"`
	CustomTextureURL *string `json:"customTextureUrl,omitempty" validate:"omitempty,max=2048,safeurl"`
	BgPage           *string `json:"bgPage,omitempty" validate:"omitempty,hexcolor"`
	BgApp            *string `json:"bgApp,omitempty" validate:"omitempty,hexcolor"`
}

// UpdateAppearanceRequest contains a partial appearance update. Each theme
// block is patched field by field.
type UpdateAppearanceRequest struct {
	FontMin *int                  `json:"fontMin,omitempty" validate:"omitempty,gte=8,lte=72"`
	FontMax *int                  `json:"fontMax,omitempty" validate:"omitempty,gte=8,lte=72"`
	Light   *ThemeAppearancePatch `json:"light,omitempty"`
	Dark    *ThemeAppearancePatch `json:"dark,omitempty"`
}

// UpdateSoundsRequest contains a partial sounds update.
type UpdateSoundsRequest struct {
	PageFlip  *string `json:"pageFlip,omitempty" validate:"omitempty,max=2048,safeurl"`
	BookOpen  *string `json:"bookOpen,omitempty" validate:"omitempty,max=2048,safeurl"`
	BookClose *string `json:"bookClose,omitempty" validate:"omitempty,max=2048,safeurl"`
}

// UpdateDefaultSettingsRequest contains a partial reader-defaults update.
type UpdateDefaultSettingsRequest struct {
	Font          *string  `json:"font,omitempty" validate:"omitempty,max=64"`
	FontSize      *int     `json:"fontSize,omitempty" validate:"omitempty,gte=8,lte=72"`
	Theme         *string  `json:"theme,omitempty" validate:"omitempty,oneof=light dark"`
	SoundEnabled  *bool    `json:"soundEnabled,omitempty"`
	SoundVolume   *float64 `json:"soundVolume,omitempty" validate:"omitempty,gte=0,lte=1"`
	AmbientType   *string  `json:"ambientType,omitempty" validate:"omitempty,max=64"`
	AmbientVolume *float64 `json:"ambientVolume,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// GetAppearance returns a book's appearance record.
func (s *BookPrefsService) GetAppearance(ctx context.Context, userID, bookID string) (*domain.BookAppearance, error) {
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}
	appearance, err := s.store.GetAppearance(ctx, bookID)
	if err != nil {
		return nil, notFoundOr(err, "appearance")
	}
	return appearance, nil
}

// UpdateAppearance patches a book's appearance. FontMin <= FontMax is
// enforced against the merged result.
func (s *BookPrefsService) UpdateAppearance(ctx context.Context, userID, bookID string, req UpdateAppearanceRequest) (*domain.BookAppearance, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	appearance, err := s.GetAppearance(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if req.FontMin != nil {
		appearance.FontMin = *req.FontMin
	}
	if req.FontMax != nil {
		appearance.FontMax = *req.FontMax
	}
	if appearance.FontMin > appearance.FontMax {
		return nil, fontRangeError()
	}
	applyThemePatch(&appearance.Light, req.Light)
	applyThemePatch(&appearance.Dark, req.Dark)
	appearance.UpdatedAt = nowUTC()

	if err := s.store.PutAppearance(ctx, appearance); err != nil {
		return nil, fmt.Errorf("put appearance: %w", err)
	}
	return appearance, nil
}

// GetSounds returns a book's sound-effect record.
func (s *BookPrefsService) GetSounds(ctx context.Context, userID, bookID string) (*domain.BookSounds, error) {
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}
	sounds, err := s.store.GetSounds(ctx, bookID)
	if err != nil {
		return nil, notFoundOr(err, "sounds")
	}
	return sounds, nil
}

// UpdateSounds patches a book's sound effects.
func (s *BookPrefsService) UpdateSounds(ctx context.Context, userID, bookID string, req UpdateSoundsRequest) (*domain.BookSounds, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	sounds, err := s.GetSounds(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if req.PageFlip != nil {
		sounds.PageFlip = *req.PageFlip
	}
	if req.BookOpen != nil {
		sounds.BookOpen = *req.BookOpen
	}
	if req.BookClose != nil {
		sounds.BookClose = *req.BookClose
	}
	sounds.UpdatedAt = nowUTC()

	if err := s.store.PutSounds(ctx, sounds); err != nil {
		return nil, fmt.Errorf("put sounds: %w", err)
	}
	return sounds, nil
}

// GetDefaultSettings returns a book's reader defaults.
func (s *BookPrefsService) GetDefaultSettings(ctx context.Context, userID, bookID string) (*domain.BookDefaultSettings, error) {
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}
	defaults, err := s.store.GetDefaultSettings(ctx, bookID)
	if err != nil {
		return nil, notFoundOr(err, "default settings")
	}
	return defaults, nil
}

// UpdateDefaultSettings patches a book's reader defaults.
func (s *BookPrefsService) UpdateDefaultSettings(ctx context.Context, userID, bookID string, req UpdateDefaultSettingsRequest) (*domain.BookDefaultSettings, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	defaults, err := s.GetDefaultSettings(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if req.Font != nil {
		defaults.Font = *req.Font
	}
	if req.FontSize != nil {
		defaults.FontSize = *req.FontSize
	}
	if req.Theme != nil {
		defaults.Theme = *req.Theme
	}
	if req.SoundEnabled != nil {
		defaults.SoundEnabled = *req.SoundEnabled
	}
	if req.SoundVolume != nil {
		defaults.SoundVolume = *req.SoundVolume
	}
	if req.AmbientType != nil {
		defaults.AmbientType = *req.AmbientType
	}
	if req.AmbientVolume != nil {
		defaults.AmbientVolume = *req.AmbientVolume
	}
	defaults.UpdatedAt = nowUTC()

	if err := s.store.PutDefaultSettings(ctx, defaults); err != nil {
		return nil, fmt.Errorf("put default settings: %w", err)
	}
	return defaults, nil
}

func applyThemePatch(theme *domain.ThemeAppearance, patch *ThemeAppearancePatch) {
	if patch == nil {
		return
	}
	if patch.CoverBgStart != nil {
		theme.CoverBgStart = *patch.CoverBgStart
	}
	if patch.CoverBgEnd != nil {
		theme.CoverBgEnd = *patch.CoverBgEnd
	}
	if patch.CoverText != nil {
		theme.CoverText = *patch.CoverText
	}
	if patch.CoverBgImageURL != nil {
		theme.CoverBgImageURL = *patch.CoverBgImageURL
	}
	if patch.PageTexture != nil {
		theme.PageTexture = domain.PageTexture(*patch.PageTexture)
	}
	if patch.CustomTextureURL != nil {
		theme.CustomTextureURL = *patch.CustomTextureURL
	}
	if patch.BgPage != nil {
		theme.BgPage = *patch.BgPage
	}
	if patch.BgApp != nil {
		theme.BgApp = *patch.BgApp
	}
}
