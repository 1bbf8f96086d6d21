package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/service"
)

func (s *Server) registerProgressRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-progress",
		Method:      http.MethodGet,
		Path:        "/api/books/{bookId}/progress",
		Summary:     "Reading position for a book",
		Tags:        []string{"Progress"},
	}, s.handleGetProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "put-progress",
		Method:      http.MethodPut,
		Path:        "/api/books/{bookId}/progress",
		Summary:     "Save the reading position",
		Description: "Full replacement, last write wins across devices.",
		Tags:        []string{"Progress"},
	}, s.handlePutProgress)
}

// ProgressOutput wraps a reading position record.
type ProgressOutput struct {
	Body *domain.ReadingProgress
}

// PutProgressInput wraps a reading position save.
type PutProgressInput struct {
	BookID string `path:"bookId"`
	Body   service.PutProgressRequest
}

func (s *Server) handleGetProgress(ctx context.Context, input *BookParam) (*ProgressOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.services.Progress.Get(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &ProgressOutput{Body: progress}, nil
}

func (s *Server) handlePutProgress(ctx context.Context, input *PutProgressInput) (*ProgressOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.services.Progress.Put(ctx, userID, input.BookID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ProgressOutput{Body: progress}, nil
}
