package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/api/settings",
		Summary:     "Account-wide reader settings",
		Tags:        []string{"Settings"},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-settings",
		Method:      http.MethodPatch,
		Path:        "/api/settings",
		Summary:     "Update account-wide reader settings",
		Tags:        []string{"Settings"},
	}, s.handleUpdateSettings)
}

// GlobalSettingsOutput wraps the account settings record.
type GlobalSettingsOutput struct {
	Body *domain.GlobalSettings
}

// UpdateGlobalSettingsInput wraps a settings patch.
type UpdateGlobalSettingsInput struct {
	Body service.UpdateSettingsRequest
}

func (s *Server) handleGetSettings(ctx context.Context, _ *struct{}) (*GlobalSettingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.services.Settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GlobalSettingsOutput{Body: settings}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateGlobalSettingsInput) (*GlobalSettingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.services.Settings.Update(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &GlobalSettingsOutput{Body: settings}, nil
}
