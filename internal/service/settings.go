package service

import (
	"context"
	"fmt"

	"github.com/readwellapp/readwell-server/internal/domain"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/store"
)

// SettingsService manages the per-user global reader settings.
type SettingsService struct {
	store store.Store
	log   *logger.Logger
}

// NewSettingsService creates a settings service.
func NewSettingsService(st store.Store, log *logger.Logger) *SettingsService {
	return &SettingsService{store: st, log: log}
}

// VisibilityPatch contains the toggleable reader controls. Nil fields are
// left unchanged.
type VisibilityPatch struct {
	FontSize   *bool `json:"fontSize,omitempty"`
	Theme      *bool `json:"theme,omitempty"`
	Font       *bool `json:"font,omitempty"`
	Fullscreen *bool `json:"fullscreen,omitempty"`
	Sound      *bool `json:"sound,omitempty"`
	Ambient    *bool `json:"ambient,omitempty"`
}

// UpdateSettingsRequest contains a partial global settings update.
type UpdateSettingsRequest struct {
	FontMin    *int             `json:"fontMin,omitempty" validate:"omitempty,gte=8,lte=72"`
	FontMax    *int             `json:"fontMax,omitempty" validate:"omitempty,gte=8,lte=72"`
	Visibility *VisibilityPatch `json:"settingsVisibility,omitempty"`
}

// Get returns the caller's settings, seeding defaults if the row is missing.
func (s *SettingsService) Get(ctx context.Context, userID string) (*domain.GlobalSettings, error) {
	settings, err := s.store.GetGlobalSettings(ctx, userID)
	if domainerrors.Is(err, store.ErrNotFound) {
		return domain.NewGlobalSettings(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// Update patches the caller's settings.
func (s *SettingsService) Update(ctx context.Context, userID string, req UpdateSettingsRequest) (*domain.GlobalSettings, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FontMin != nil {
		settings.FontMin = *req.FontMin
	}
	if req.FontMax != nil {
		settings.FontMax = *req.FontMax
	}
	if settings.FontMin > settings.FontMax {
		return nil, fontRangeError()
	}
	if p := req.Visibility; p != nil {
		if p.FontSize != nil {
			settings.Visibility.FontSize = *p.FontSize
		}
		if p.Theme != nil {
			settings.Visibility.Theme = *p.Theme
		}
		if p.Font != nil {
			settings.Visibility.Font = *p.Font
		}
		if p.Fullscreen != nil {
			settings.Visibility.Fullscreen = *p.Fullscreen
		}
		if p.Sound != nil {
			settings.Visibility.Sound = *p.Sound
		}
		if p.Ambient != nil {
			settings.Visibility.Ambient = *p.Ambient
		}
	}
	settings.UpdatedAt = nowUTC()

	if err := s.store.PutGlobalSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("put settings: %w", err)
	}
	return settings, nil
}
