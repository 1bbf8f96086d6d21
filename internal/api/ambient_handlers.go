package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/service"
)

func (s *Server) registerAmbientRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-ambients",
		Method:      http.MethodGet,
		Path:        "/api/books/{bookId}/ambients",
		Summary:     "List a book's ambient sounds",
		Tags:        []string{"Ambients"},
	}, s.handleListAmbients)

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-ambient",
		Method:        http.MethodPost,
		Path:          "/api/books/{bookId}/ambients",
		Summary:       "Add a custom ambient sound",
		Tags:          []string{"Ambients"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateAmbient)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorder-ambients",
		Method:      http.MethodPatch,
		Path:        "/api/books/{bookId}/ambients/reorder",
		Summary:     "Reorder a book's ambient sounds",
		Tags:        []string{"Ambients"},
	}, s.handleReorderAmbients)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-ambient",
		Method:      http.MethodPatch,
		Path:        "/api/books/{bookId}/ambients/{ambientId}",
		Summary:     "Update an ambient sound",
		Description: "Builtin ambients accept label, icon, and visibility changes only.",
		Tags:        []string{"Ambients"},
	}, s.handleUpdateAmbient)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-ambient",
		Method:        http.MethodDelete,
		Path:          "/api/books/{bookId}/ambients/{ambientId}",
		Summary:       "Delete a custom ambient sound",
		Tags:          []string{"Ambients"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteAmbient)
}

// === DTOs ===

// AmbientParam addresses one ambient within a book.
type AmbientParam struct {
	BookID    string `path:"bookId"`
	AmbientID string `path:"ambientId"`
}

// CreateAmbientInput wraps ambient creation.
type CreateAmbientInput struct {
	BookID string `path:"bookId"`
	Body   service.CreateAmbientRequest
}

// UpdateAmbientInput wraps an ambient patch.
type UpdateAmbientInput struct {
	BookID    string `path:"bookId"`
	AmbientID string `path:"ambientId"`
	Body      service.UpdateAmbientRequest
}

// ReorderAmbientsInput carries the full ordered ambient id list.
type ReorderAmbientsInput struct {
	BookID string `path:"bookId"`
	Body   struct {
		Order []string `json:"order" doc:"Every ambient id in the desired order"`
	}
}

// AmbientOutput wraps one ambient.
type AmbientOutput struct {
	Body *domain.Ambient
}

// AmbientsOutput wraps an ambient list.
type AmbientsOutput struct {
	Body []*domain.Ambient
}

// === Handlers ===

func (s *Server) handleListAmbients(ctx context.Context, input *BookParam) (*AmbientsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	ambients, err := s.services.Ambients.List(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &AmbientsOutput{Body: ambients}, nil
}

func (s *Server) handleCreateAmbient(ctx context.Context, input *CreateAmbientInput) (*AmbientOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	ambient, err := s.services.Ambients.Create(ctx, userID, input.BookID, input.Body)
	if err != nil {
		return nil, err
	}
	return &AmbientOutput{Body: ambient}, nil
}

func (s *Server) handleUpdateAmbient(ctx context.Context, input *UpdateAmbientInput) (*AmbientOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	ambient, err := s.services.Ambients.Update(ctx, userID, input.BookID, input.AmbientID, input.Body)
	if err != nil {
		return nil, err
	}
	return &AmbientOutput{Body: ambient}, nil
}

func (s *Server) handleDeleteAmbient(ctx context.Context, input *AmbientParam) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Ambients.Delete(ctx, userID, input.BookID, input.AmbientID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleReorderAmbients(ctx context.Context, input *ReorderAmbientsInput) (*AmbientsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	ambients, err := s.services.Ambients.Reorder(ctx, userID, input.BookID, input.Body.Order)
	if err != nil {
		return nil, err
	}
	return &AmbientsOutput{Body: ambients}, nil
}
