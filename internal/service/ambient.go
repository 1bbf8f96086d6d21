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

// AmbientService manages per-book ambient soundtrack entries.
type AmbientService struct {
	store   store.Store
	books   *BookService
	storage objstore.Storage
	log     *logger.Logger
}

// NewAmbientService creates an ambient service.
func NewAmbientService(st store.Store, books *BookService, storage objstore.Storage, log *logger.Logger) *AmbientService {
	return &AmbientService{store: st, books: books, storage: storage, log: log}
}

// CreateAmbientRequest contains new custom ambient data.
type CreateAmbientRequest struct {
	AmbientKey string `json:"ambientKey" validate:"required,min=1,max=64,alphanum"`
	Label      string `json:"label" validate:"required,max=80"`
	ShortLabel string `json:"shortLabel" validate:"max=24"`
	Icon       string `json:"icon" validate:"max=16"`
	FileURL    string `json:"fileUrl" validate:"max=2048,safeurl"`
}

// UpdateAmbientRequest contains the editable ambient fields. Nil fields are
// left unchanged.
type UpdateAmbientRequest struct {
	Label      *string `json:"label,omitempty" validate:"omitempty,min=1,max=80"`
	ShortLabel *string `json:"shortLabel,omitempty" validate:"omitempty,max=24"`
	Icon       *string `json:"icon,omitempty" validate:"omitempty,max=16"`
	FileURL    *string `json:"fileUrl,omitempty" validate:"omitempty,max=2048,safeurl"`
	Visible    *bool   `json:"visible,omitempty"`
}

// List returns a book's ambients in display order.
func (s *AmbientService) List(ctx context.Context, userID, bookID string) ([]*domain.Ambient, error) {
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}
	ambients, err := s.store.ListAmbients(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list ambients: %w", err)
	}
	return ambients, nil
}

// Create appends a custom ambient to a book.
func (s *AmbientService) Create(ctx context.Context, userID, bookID string, req CreateAmbientRequest) (*domain.Ambient, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}

	position, err := s.store.NextAmbientPosition(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("next ambient position: %w", err)
	}

	ambient := &domain.Ambient{
		BookID:     bookID,
		AmbientKey: req.AmbientKey,
		Label:      req.Label,
		ShortLabel: req.ShortLabel,
		Icon:       req.Icon,
		FileURL:    req.FileURL,
		Visible:    true,
		Position:   position,
	}
	ambient.ID, err = id.Generate("amb")
	if err != nil {
		return nil, fmt.Errorf("generate ambient ID: %w", err)
	}
	ambient.InitTimestamps()

	if err := s.store.CreateAmbient(ctx, ambient); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("this book already has an ambient with that key")
		}
		return nil, fmt.Errorf("create ambient: %w", err)
	}
	return ambient, nil
}

// Update patches an ambient. Builtin ambients accept visibility and label
// changes like any other row.
func (s *AmbientService) Update(ctx context.Context, userID, bookID, ambientID string, req UpdateAmbientRequest) (*domain.Ambient, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}
	ambient, err := s.requireInBook(ctx, bookID, ambientID)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		ambient.Label = *req.Label
	}
	if req.ShortLabel != nil {
		ambient.ShortLabel = *req.ShortLabel
	}
	if req.Icon != nil {
		ambient.Icon = *req.Icon
	}
	if req.FileURL != nil {
		if ambient.Builtin {
			return nil, domainerrors.Forbidden("builtin ambients keep their sound")
		}
		ambient.FileURL = *req.FileURL
	}
	if req.Visible != nil {
		ambient.Visible = *req.Visible
	}
	ambient.Touch()

	if err := s.store.UpdateAmbient(ctx, ambient); err != nil {
		return nil, notFoundOr(err, "ambient")
	}
	return ambient, nil
}

// Delete removes a custom ambient and its uploaded sound. Builtin ambients
// can only be hidden, never deleted.
func (s *AmbientService) Delete(ctx context.Context, userID, bookID, ambientID string) error {
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return err
	}
	ambient, err := s.requireInBook(ctx, bookID, ambientID)
	if err != nil {
		return err
	}
	if ambient.Builtin {
		return domainerrors.Forbidden("builtin ambients cannot be deleted")
	}

	if err := s.store.DeleteAmbient(ctx, ambientID); err != nil {
		return notFoundOr(err, "ambient")
	}
	if ambient.FileURL != "" {
		if err := s.storage.Delete(ctx, ambient.FileURL); err != nil {
			s.log.Warn("delete ambient file", "ambient_id", ambientID, "error", err)
		}
	}
	return nil
}

// Reorder renumbers a book's ambients to the given full ID list.
func (s *AmbientService) Reorder(ctx context.Context, userID, bookID string, orderedIDs []string) ([]*domain.Ambient, error) {
	if len(orderedIDs) == 0 {
		return nil, domainerrors.Validation("order must not be empty")
	}
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}
	if err := s.store.ReorderAmbients(ctx, bookID, orderedIDs); err != nil {
		if domainerrors.Is(err, store.ErrConflict) {
			return nil, domainerrors.Conflict("order does not match the current set of ambients")
		}
		return nil, fmt.Errorf("reorder ambients: %w", err)
	}
	ambients, err := s.store.ListAmbients(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list ambients: %w", err)
	}
	return ambients, nil
}

func (s *AmbientService) requireInBook(ctx context.Context, bookID, ambientID string) (*domain.Ambient, error) {
	ambient, err := s.store.GetAmbient(ctx, ambientID)
	if err != nil {
		return nil, notFoundOr(err, "ambient")
	}
	if ambient.BookID != bookID {
		return nil, domainerrors.NotFound("ambient not found")
	}
	return ambient, nil
}
