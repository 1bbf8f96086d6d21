package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/service"
)

func (s *Server) registerPrefsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-appearance",
		Method:      http.MethodGet,
		Path:        "/api/books/{bookId}/appearance",
		Summary:     "Book appearance",
		Tags:        []string{"Appearance"},
	}, s.handleGetAppearance)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-appearance",
		Method:      http.MethodPatch,
		Path:        "/api/books/{bookId}/appearance",
		Summary:     "Update book appearance",
		Tags:        []string{"Appearance"},
	}, s.handleUpdateAppearance)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-appearance-theme",
		Method:      http.MethodPatch,
		Path:        "/api/books/{bookId}/appearance/{theme}",
		Summary:     "Update one theme block",
		Description: "Patches only the light or dark block of the book's appearance.",
		Tags:        []string{"Appearance"},
	}, s.handleUpdateAppearanceTheme)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-sounds",
		Method:      http.MethodGet,
		Path:        "/api/books/{bookId}/sounds",
		Summary:     "Book sound effects",
		Tags:        []string{"Sounds"},
	}, s.handleGetSounds)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-sounds",
		Method:      http.MethodPatch,
		Path:        "/api/books/{bookId}/sounds",
		Summary:     "Update book sound effects",
		Tags:        []string{"Sounds"},
	}, s.handleUpdateSounds)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-default-settings",
		Method:      http.MethodGet,
		Path:        "/api/books/{bookId}/default-settings",
		Summary:     "Book reader defaults",
		Tags:        []string{"Reader defaults"},
	}, s.handleGetDefaultSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-default-settings",
		Method:      http.MethodPatch,
		Path:        "/api/books/{bookId}/default-settings",
		Summary:     "Update book reader defaults",
		Tags:        []string{"Reader defaults"},
	}, s.handleUpdateDefaultSettings)
}

// === DTOs ===

// AppearanceOutput wraps a book appearance record.
type AppearanceOutput struct {
	Body *domain.BookAppearance
}

// UpdateAppearanceInput wraps an appearance patch.
type UpdateAppearanceInput struct {
	BookID string `path:"bookId"`
	Body   service.UpdateAppearanceRequest
}

// UpdateAppearanceThemeInput patches a single theme block.
type UpdateAppearanceThemeInput struct {
	BookID string `path:"bookId"`
	Theme  string `path:"theme" enum:"light,dark" doc:"Theme block to patch"`
	Body   service.ThemeAppearancePatch
}

// SoundsOutput wraps a book sounds record.
type SoundsOutput struct {
	Body *domain.BookSounds
}

// UpdateSoundsInput wraps a sounds patch.
type UpdateSoundsInput struct {
	BookID string `path:"bookId"`
	Body   service.UpdateSoundsRequest
}

// DefaultSettingsOutput wraps a book reader-defaults record.
type DefaultSettingsOutput struct {
	Body *domain.BookDefaultSettings
}

// UpdateDefaultSettingsInput wraps a reader-defaults patch.
type UpdateDefaultSettingsInput struct {
	BookID string `path:"bookId"`
	Body   service.UpdateDefaultSettingsRequest
}

// === Handlers ===

func (s *Server) handleGetAppearance(ctx context.Context, input *BookParam) (*AppearanceOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	appearance, err := s.services.Prefs.GetAppearance(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &AppearanceOutput{Body: appearance}, nil
}

func (s *Server) handleUpdateAppearance(ctx context.Context, input *UpdateAppearanceInput) (*AppearanceOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	appearance, err := s.services.Prefs.UpdateAppearance(ctx, userID, input.BookID, input.Body)
	if err != nil {
		return nil, err
	}
	return &AppearanceOutput{Body: appearance}, nil
}

func (s *Server) handleUpdateAppearanceTheme(ctx context.Context, input *UpdateAppearanceThemeInput) (*AppearanceOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	patch := input.Body
	req := service.UpdateAppearanceRequest{}
	switch input.Theme {
	case "light":
		req.Light = &patch
	case "dark":
		req.Dark = &patch
	default:
		return nil, domainerrors.Validation("theme must be light or dark")
	}

	appearance, err := s.services.Prefs.UpdateAppearance(ctx, userID, input.BookID, req)
	if err != nil {
		return nil, err
	}
	return &AppearanceOutput{Body: appearance}, nil
}

func (s *Server) handleGetSounds(ctx context.Context, input *BookParam) (*SoundsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	sounds, err := s.services.Prefs.GetSounds(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &SoundsOutput{Body: sounds}, nil
}

func (s *Server) handleUpdateSounds(ctx context.Context, input *UpdateSoundsInput) (*SoundsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	sounds, err := s.services.Prefs.UpdateSounds(ctx, userID, input.BookID, input.Body)
	if err != nil {
		return nil, err
	}
	return &SoundsOutput{Body: sounds}, nil
}

func (s *Server) handleGetDefaultSettings(ctx context.Context, input *BookParam) (*DefaultSettingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	defaults, err := s.services.Prefs.GetDefaultSettings(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &DefaultSettingsOutput{Body: defaults}, nil
}

func (s *Server) handleUpdateDefaultSettings(ctx context.Context, input *UpdateDefaultSettingsInput) (*DefaultSettingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	defaults, err := s.services.Prefs.UpdateDefaultSettings(ctx, userID, input.BookID, input.Body)
	if err != nil {
		return nil, err
	}
	return &DefaultSettingsOutput{Body: defaults}, nil
}
