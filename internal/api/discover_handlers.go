package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerDiscoverRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "discover",
		Method:      http.MethodGet,
		Path:        "/api/public/discover",
		Summary:     "Recently published books",
		Description: "Public, no session required. Returns published books newest first.",
		Tags:        []string{"Discover"},
	}, s.handleDiscover)
}

// DiscoverInput carries the optional result cap.
type DiscoverInput struct {
	Limit int `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum number of books"`
}

func (s *Server) handleDiscover(ctx context.Context, input *DiscoverInput) (*BooksOutput, error) {
	books, err := s.services.Books.Discover(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &BooksOutput{Body: books}, nil
}
