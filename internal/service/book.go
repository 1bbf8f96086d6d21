package service

import (
	"context"
	"fmt"
	"time"

	"github.com/readwellapp/readwell-server/internal/domain"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/store"
)

// Discover listing bounds.
const (
	discoverDefaultLimit = 20
	discoverMaxLimit     = 50
)

// BookService manages the book aggregate.
type BookService struct {
	store store.Store
	log   *logger.Logger
}

// NewBookService creates a book service.
func NewBookService(st store.Store, log *logger.Logger) *BookService {
	return &BookService{store: st, log: log}
}

// CreateBookRequest contains new book data.
type CreateBookRequest struct {
	Title  string `json:"title" validate:"required,max=200"`
	Author string `json:"author" validate:"max=120"`
}

// UpdateBookRequest contains the editable book fields. Nil fields are left
// unchanged.
type UpdateBookRequest struct {
	Title            *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Author           *string `json:"author,omitempty" validate:"omitempty,max=120"`
	Visibility       *string `json:"visibility,omitempty" validate:"omitempty,oneof=draft published unlisted"`
	CoverBgMode      *string `json:"coverBgMode,omitempty" validate:"omitempty,oneof=default none custom"`
	CoverBgCustomURL *string `json:"coverBgCustomUrl,omitempty" validate:"omitempty,max=2048,safeurl"`
}

// Create appends a new book to the user's shelf. The store seeds the
// appearance, sounds, default settings and builtin ambients with it.
func (s *BookService) Create(ctx context.Context, userID string, req CreateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	position, err := s.store.NextBookPosition(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("next book position: %w", err)
	}

	book := &domain.Book{
		UserID:      userID,
		Title:       req.Title,
		Author:      req.Author,
		Position:    position,
		Visibility:  domain.VisibilityDraft,
		CoverBgMode: domain.CoverBgDefault,
	}
	book.ID, err = id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.log.Info("book created", "book_id", book.ID, "user_id", userID)
	return book, nil
}

// Get returns one of the caller's books.
func (s *BookService) Get(ctx context.Context, userID, bookID string) (*domain.Book, error) {
	return s.requireOwned(ctx, userID, bookID)
}

// List returns the caller's books in shelf order.
func (s *BookService) List(ctx context.Context, userID string) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Update applies a partial update. When ifUnmodifiedSince is non-nil and the
// book changed after that instant, the update is rejected with a conflict.
func (s *BookService) Update(ctx context.Context, userID, bookID string, req UpdateBookRequest, ifUnmodifiedSince *time.Time) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.requireOwned(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if ifUnmodifiedSince != nil && book.UpdatedAt.After(*ifUnmodifiedSince) {
		return nil, domainerrors.Conflict("book was modified by another request")
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Visibility != nil {
		book.Visibility = domain.Visibility(*req.Visibility)
	}
	if req.CoverBgMode != nil {
		book.CoverBgMode = domain.CoverBgMode(*req.CoverBgMode)
	}
	if req.CoverBgCustomURL != nil {
		book.CoverBgCustomURL = *req.CoverBgCustomURL
	}
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, notFoundOr(err, "book")
	}
	return book, nil
}

// Delete soft-deletes a book.
func (s *BookService) Delete(ctx context.Context, userID, bookID string) error {
	if _, err := s.requireOwned(ctx, userID, bookID); err != nil {
		return err
	}
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return notFoundOr(err, "book")
	}
	s.log.Info("book deleted", "book_id", bookID, "user_id", userID)
	return nil
}

// Reorder renumbers the caller's shelf to the given full ID list.
func (s *BookService) Reorder(ctx context.Context, userID string, orderedIDs []string) ([]*domain.Book, error) {
	if len(orderedIDs) == 0 {
		return nil, domainerrors.Validation("order must not be empty")
	}
	if err := s.store.ReorderBooks(ctx, userID, orderedIDs); err != nil {
		if domainerrors.Is(err, store.ErrConflict) {
			return nil, domainerrors.Conflict("order does not match the current set of books")
		}
		return nil, fmt.Errorf("reorder books: %w", err)
	}
	return s.List(ctx, userID)
}

// Discover returns recently published books across all users.
func (s *BookService) Discover(ctx context.Context, limit int) ([]*domain.Book, error) {
	if limit <= 0 {
		limit = discoverDefaultLimit
	}
	if limit > discoverMaxLimit {
		limit = discoverMaxLimit
	}
	books, err := s.store.ListPublishedBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published books: %w", err)
	}
	if len(books) > limit {
		books = books[:limit]
	}
	return books, nil
}

// requireOwned loads a book and verifies ownership. Books that do not exist
// return a 404; books owned by someone else a 403.
func (s *BookService) requireOwned(ctx context.Context, userID, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, notFoundOr(err, "book")
	}
	if book.UserID != userID {
		return nil, domainerrors.Forbidden("this book belongs to another user")
	}
	return book, nil
}
