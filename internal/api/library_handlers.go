package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "export-library",
		Method:      http.MethodGet,
		Path:        "/api/export",
		Summary:     "Export your library",
		Description: "Bundles every book with its chapters, preferences, and progress into one portable document.",
		Tags:        []string{"Library"},
	}, s.handleExportLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID:   "import-library",
		Method:        http.MethodPost,
		Path:          "/api/import",
		Summary:       "Import a library export",
		Description:   "Appends the imported books after your existing shelf. Ids are reassigned on import.",
		Tags:          []string{"Library"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleImportLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "migrate-library",
		Method:      http.MethodPost,
		Path:        "/api/migrate",
		Summary:     "Migrate a legacy client library",
		Description: "One-shot import for accounts with no books yet. A non-empty shelf is left untouched.",
		Tags:        []string{"Library"},
	}, s.handleMigrateLibrary)
}

// LibraryOutput wraps a full library export.
type LibraryOutput struct {
	Body *domain.Library
}

// LibraryInput wraps an uploaded library document.
type LibraryInput struct {
	Body *domain.Library
}

// MigrateOutput reports whether the legacy payload was applied.
type MigrateOutput struct {
	Body struct {
		Migrated bool `json:"migrated" doc:"False when the account already had books"`
	}
}

func (s *Server) handleExportLibrary(ctx context.Context, _ *struct{}) (*LibraryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	library, err := s.services.Library.Export(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &LibraryOutput{Body: library}, nil
}

func (s *Server) handleImportLibrary(ctx context.Context, input *LibraryInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Library.Import(ctx, userID, input.Body); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleMigrateLibrary(ctx context.Context, input *LibraryInput) (*MigrateOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	migrated, err := s.services.Library.Migrate(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	out := &MigrateOutput{}
	out.Body.Migrated = migrated
	return out, nil
}
