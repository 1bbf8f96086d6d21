package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/service"
)

func (s *Server) registerFontRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-fonts",
		Method:      http.MethodGet,
		Path:        "/api/fonts",
		Summary:     "List your reading fonts",
		Tags:        []string{"Fonts"},
	}, s.handleListFonts)

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-font",
		Method:        http.MethodPost,
		Path:          "/api/fonts",
		Summary:       "Add a custom reading font",
		Tags:          []string{"Fonts"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateFont)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorder-fonts",
		Method:      http.MethodPatch,
		Path:        "/api/fonts/reorder",
		Summary:     "Reorder your reading fonts",
		Tags:        []string{"Fonts"},
	}, s.handleReorderFonts)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-font",
		Method:      http.MethodPatch,
		Path:        "/api/fonts/{fontId}",
		Summary:     "Update a reading font",
		Description: "Builtin fonts accept label and enabled changes only.",
		Tags:        []string{"Fonts"},
	}, s.handleUpdateFont)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-font",
		Method:        http.MethodDelete,
		Path:          "/api/fonts/{fontId}",
		Summary:       "Delete a custom reading font",
		Tags:          []string{"Fonts"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteFont)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-decorative-font",
		Method:      http.MethodGet,
		Path:        "/api/books/{bookId}/decorative-font",
		Summary:     "Book decorative font",
		Tags:        []string{"Fonts"},
	}, s.handleGetDecorativeFont)

	huma.Register(s.api, huma.Operation{
		OperationID: "put-decorative-font",
		Method:      http.MethodPut,
		Path:        "/api/books/{bookId}/decorative-font",
		Summary:     "Set the book decorative font",
		Tags:        []string{"Fonts"},
	}, s.handlePutDecorativeFont)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-decorative-font",
		Method:        http.MethodDelete,
		Path:          "/api/books/{bookId}/decorative-font",
		Summary:       "Remove the book decorative font",
		Tags:          []string{"Fonts"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteDecorativeFont)
}

// === DTOs ===

// FontParam addresses one reading font.
type FontParam struct {
	FontID string `path:"fontId"`
}

// CreateFontInput wraps reading font creation.
type CreateFontInput struct {
	Body service.CreateReadingFontRequest
}

// UpdateFontInput wraps a reading font patch.
type UpdateFontInput struct {
	FontID string `path:"fontId"`
	Body   service.UpdateReadingFontRequest
}

// FontOutput wraps one reading font.
type FontOutput struct {
	Body *domain.ReadingFont
}

// FontsOutput wraps a reading font list.
type FontsOutput struct {
	Body []*domain.ReadingFont
}

// PutDecorativeFontInput wraps a decorative font assignment.
type PutDecorativeFontInput struct {
	BookID string `path:"bookId"`
	Body   service.PutDecorativeFontRequest
}

// DecorativeFontOutput wraps a book's decorative font.
type DecorativeFontOutput struct {
	Body *domain.DecorativeFont
}

// === Handlers ===

func (s *Server) handleListFonts(ctx context.Context, _ *struct{}) (*FontsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	fonts, err := s.services.Fonts.ListReadingFonts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FontsOutput{Body: fonts}, nil
}

func (s *Server) handleCreateFont(ctx context.Context, input *CreateFontInput) (*FontOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	font, err := s.services.Fonts.CreateReadingFont(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &FontOutput{Body: font}, nil
}

func (s *Server) handleUpdateFont(ctx context.Context, input *UpdateFontInput) (*FontOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	font, err := s.services.Fonts.UpdateReadingFont(ctx, userID, input.FontID, input.Body)
	if err != nil {
		return nil, err
	}
	return &FontOutput{Body: font}, nil
}

func (s *Server) handleDeleteFont(ctx context.Context, input *FontParam) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Fonts.DeleteReadingFont(ctx, userID, input.FontID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleReorderFonts(ctx context.Context, input *ReorderInput) (*FontsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	fonts, err := s.services.Fonts.ReorderReadingFonts(ctx, userID, input.Body.Order)
	if err != nil {
		return nil, err
	}
	return &FontsOutput{Body: fonts}, nil
}

func (s *Server) handleGetDecorativeFont(ctx context.Context, input *BookParam) (*DecorativeFontOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	font, err := s.services.Fonts.GetDecorativeFont(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &DecorativeFontOutput{Body: font}, nil
}

func (s *Server) handlePutDecorativeFont(ctx context.Context, input *PutDecorativeFontInput) (*DecorativeFontOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	font, err := s.services.Fonts.PutDecorativeFont(ctx, userID, input.BookID, input.Body)
	if err != nil {
		return nil, err
	}
	return &DecorativeFontOutput{Body: font}, nil
}

func (s *Server) handleDeleteDecorativeFont(ctx context.Context, input *BookParam) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Fonts.DeleteDecorativeFont(ctx, userID, input.BookID); err != nil {
		return nil, err
	}
	return nil, nil
}
