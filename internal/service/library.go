package service

import (
	"context"
	"fmt"

	"github.com/readwellapp/readwell-server/internal/domain"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/store"
)

// LibraryService handles whole-tree export, import, and the one-shot
// migration of legacy client-side data.
type LibraryService struct {
	store store.Store
	log   *logger.Logger
}

// NewLibraryService creates a library service.
func NewLibraryService(st store.Store, log *logger.Logger) *LibraryService {
	return &LibraryService{store: st, log: log}
}

// Export returns the caller's entire live tree.
func (s *LibraryService) Export(ctx context.Context, userID string) (*domain.Library, error) {
	library, err := s.store.ExportLibrary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("export library: %w", err)
	}
	return library, nil
}

// Import reconstructs an exported tree under the caller, appending after
// their existing books.
func (s *LibraryService) Import(ctx context.Context, userID string, library *domain.Library) error {
	if err := checkLibrary(library); err != nil {
		return err
	}

	offset, err := s.store.NextBookPosition(ctx, userID)
	if err != nil {
		return fmt.Errorf("next book position: %w", err)
	}
	if err := s.store.ImportLibrary(ctx, userID, library, offset); err != nil {
		return fmt.Errorf("import library: %w", err)
	}

	s.log.Info("library imported", "user_id", userID, "books", len(library.Books))
	return nil
}

// Migrate imports a legacy client-held library once. If the caller already
// has any live book the payload is rejected as already migrated and the
// client should discard its local copy only when migrated is true.
func (s *LibraryService) Migrate(ctx context.Context, userID string, library *domain.Library) (migrated bool, err error) {
	if err := checkLibrary(library); err != nil {
		return false, err
	}

	count, err := s.store.CountBooks(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("count books: %w", err)
	}
	if count > 0 {
		s.log.Info("migration skipped, server data present", "user_id", userID)
		return false, nil
	}

	if err := s.store.ImportLibrary(ctx, userID, library, 0); err != nil {
		return false, fmt.Errorf("migrate library: %w", err)
	}

	s.log.Info("legacy library migrated", "user_id", userID, "books", len(library.Books))
	return true, nil
}

func checkLibrary(library *domain.Library) error {
	if library == nil {
		return domainerrors.Validation("library payload is required")
	}
	if library.Version > domain.LibraryVersion {
		return domainerrors.Validationf("unsupported library version %d", library.Version)
	}
	for _, bundle := range library.Books {
		if bundle == nil || bundle.Book == nil {
			return domainerrors.Validation("every library entry must contain a book")
		}
		if bundle.Book.Title == "" {
			return domainerrors.Validation("every book must have a title")
		}
	}
	return nil
}
