package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-books",
		Method:      http.MethodGet,
		Path:        "/api/books",
		Summary:     "List your books",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-book",
		Method:        http.MethodPost,
		Path:          "/api/books",
		Summary:       "Create a book",
		Description:   "Appends the book to your shelf and seeds its appearance, sounds, defaults, and builtin ambients.",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorder-books",
		Method:      http.MethodPatch,
		Path:        "/api/books/reorder",
		Summary:     "Reorder your books",
		Description: "Takes the full ordered id list; a partial or stale list is a conflict.",
		Tags:        []string{"Books"},
	}, s.handleReorderBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-book",
		Method:      http.MethodGet,
		Path:        "/api/books/{bookId}",
		Summary:     "Get a book",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-book",
		Method:      http.MethodPatch,
		Path:        "/api/books/{bookId}",
		Summary:     "Update a book",
		Description: "Send If-Unmodified-Since with the last updatedAt you saw to detect lost updates.",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-book",
		Method:        http.MethodDelete,
		Path:          "/api/books/{bookId}",
		Summary:       "Delete a book",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteBook)
}

// === DTOs ===

// CreateBookBody is the request body for book creation.
type CreateBookBody struct {
	Title  string `json:"title" doc:"Book title"`
	Author string `json:"author,omitempty" doc:"Author name"`
}

// CreateBookInput wraps book creation.
type CreateBookInput struct {
	Body CreateBookBody
}

// UpdateBookBody is the book patch body. Omitted fields are unchanged.
type UpdateBookBody struct {
	Title            *string `json:"title,omitempty" doc:"Book title"`
	Author           *string `json:"author,omitempty" doc:"Author name"`
	Visibility       *string `json:"visibility,omitempty" doc:"draft, published, or unlisted"`
	CoverBgMode      *string `json:"coverBgMode,omitempty" doc:"default, none, or custom"`
	CoverBgCustomURL *string `json:"coverBgCustomUrl,omitempty" doc:"Custom cover background URL"`
}

// UpdateBookInput wraps a book patch.
type UpdateBookInput struct {
	BookID            string `path:"bookId"`
	IfUnmodifiedSince string `header:"If-Unmodified-Since" doc:"updatedAt timestamp from your last read"`
	Body              UpdateBookBody
}

// BookParam addresses one book.
type BookParam struct {
	BookID string `path:"bookId"`
}

// BookOutput wraps one book.
type BookOutput struct {
	Body *domain.Book
}

// BooksOutput wraps a book list.
type BooksOutput struct {
	Body []*domain.Book
}

// ReorderInput carries a full ordered id list.
type ReorderInput struct {
	Body struct {
		Order []string `json:"order" doc:"Every child id in the desired order"`
	}
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, _ *struct{}) (*BooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	books, err := s.services.Books.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	book, err := s.services.Books.Create(ctx, userID, service.CreateBookRequest{
		Title:  input.Body.Title,
		Author: input.Body.Author,
	})
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookParam) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	book, err := s.services.Books.Get(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	since, err := parseIfUnmodifiedSince(input.IfUnmodifiedSince)
	if err != nil {
		return nil, err
	}
	book, err := s.services.Books.Update(ctx, userID, input.BookID, service.UpdateBookRequest{
		Title:            input.Body.Title,
		Author:           input.Body.Author,
		Visibility:       input.Body.Visibility,
		CoverBgMode:      input.Body.CoverBgMode,
		CoverBgCustomURL: input.Body.CoverBgCustomURL,
	}, since)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookParam) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Books.Delete(ctx, userID, input.BookID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleReorderBooks(ctx context.Context, input *ReorderInput) (*BooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	books, err := s.services.Books.Reorder(ctx, userID, input.Body.Order)
	if err != nil {
		return nil, err
	}
	return &BooksOutput{Body: books}, nil
}

// parseIfUnmodifiedSince parses the optimistic-concurrency header. The
// value is the RFC3339 updatedAt string the API itself emits.
func parseIfUnmodifiedSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, domainerrors.Validation("If-Unmodified-Since must be an RFC3339 timestamp")
	}
	return &t, nil
}
