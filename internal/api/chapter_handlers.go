package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/service"
)

func (s *Server) registerChapterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-chapters",
		Method:      http.MethodGet,
		Path:        "/api/books/{bookId}/chapters",
		Summary:     "List a book's chapters",
		Tags:        []string{"Chapters"},
	}, s.handleListChapters)

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-chapter",
		Method:        http.MethodPost,
		Path:          "/api/books/{bookId}/chapters",
		Summary:       "Add a chapter",
		Tags:          []string{"Chapters"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorder-chapters",
		Method:      http.MethodPatch,
		Path:        "/api/books/{bookId}/chapters/reorder",
		Summary:     "Reorder a book's chapters",
		Tags:        []string{"Chapters"},
	}, s.handleReorderChapters)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-chapter",
		Method:      http.MethodGet,
		Path:        "/api/books/{bookId}/chapters/{chapterId}",
		Summary:     "Get a chapter",
		Tags:        []string{"Chapters"},
	}, s.handleGetChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-chapter",
		Method:      http.MethodPatch,
		Path:        "/api/books/{bookId}/chapters/{chapterId}",
		Summary:     "Update a chapter",
		Tags:        []string{"Chapters"},
	}, s.handleUpdateChapter)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-chapter",
		Method:        http.MethodDelete,
		Path:          "/api/books/{bookId}/chapters/{chapterId}",
		Summary:       "Delete a chapter",
		Tags:          []string{"Chapters"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "chapter-content",
		Method:      http.MethodGet,
		Path:        "/api/books/{bookId}/chapters/{chapterId}/content",
		Summary:     "Chapter reading content",
		Description: "Returns the sanitized article HTML, whether stored inline or as an uploaded file.",
		Tags:        []string{"Chapters"},
	}, s.handleChapterContent)
}

// === DTOs ===

// ChapterParam addresses one chapter within a book.
type ChapterParam struct {
	BookID    string `path:"bookId"`
	ChapterID string `path:"chapterId"`
}

// CreateChapterBody is the request body for chapter creation.
type CreateChapterBody struct {
	Title       string `json:"title" doc:"Chapter title"`
	HTMLContent string `json:"htmlContent,omitempty" doc:"Inline chapter HTML, sanitized on write"`
}

// CreateChapterInput wraps chapter creation.
type CreateChapterInput struct {
	BookID string `path:"bookId"`
	Body   CreateChapterBody
}

// UpdateChapterBody is the chapter patch body. Omitted fields are unchanged.
type UpdateChapterBody struct {
	Title       *string `json:"title,omitempty" doc:"Chapter title"`
	HTMLContent *string `json:"htmlContent,omitempty" doc:"Replacement HTML, sanitized on write"`
	Bg          *string `json:"bg,omitempty" doc:"Chapter background image URL"`
	BgMobile    *string `json:"bgMobile,omitempty" doc:"Mobile background image URL"`
}

// UpdateChapterInput wraps a chapter patch.
type UpdateChapterInput struct {
	BookID            string `path:"bookId"`
	ChapterID         string `path:"chapterId"`
	IfUnmodifiedSince string `header:"If-Unmodified-Since" doc:"updatedAt timestamp from your last read"`
	Body              UpdateChapterBody
}

// ChapterOutput wraps one chapter.
type ChapterOutput struct {
	Body *domain.Chapter
}

// ChaptersOutput wraps a chapter list.
type ChaptersOutput struct {
	Body []*domain.Chapter
}

// ReorderChaptersInput carries the full ordered chapter id list.
type ReorderChaptersInput struct {
	BookID string `path:"bookId"`
	Body   struct {
		Order []string `json:"order" doc:"Every chapter id in the desired order"`
	}
}

// ChapterContentOutput carries the sanitized article HTML.
type ChapterContentOutput struct {
	Body string
}

// === Handlers ===

func (s *Server) handleListChapters(ctx context.Context, input *BookParam) (*ChaptersOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	chapters, err := s.services.Chapters.List(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &ChaptersOutput{Body: chapters}, nil
}

func (s *Server) handleCreateChapter(ctx context.Context, input *CreateChapterInput) (*ChapterOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	chapter, err := s.services.Chapters.Create(ctx, userID, input.BookID, service.CreateChapterRequest{
		Title:       input.Body.Title,
		HTMLContent: input.Body.HTMLContent,
	})
	if err != nil {
		return nil, err
	}
	return &ChapterOutput{Body: chapter}, nil
}

func (s *Server) handleGetChapter(ctx context.Context, input *ChapterParam) (*ChapterOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	chapter, err := s.services.Chapters.Get(ctx, userID, input.BookID, input.ChapterID)
	if err != nil {
		return nil, err
	}
	return &ChapterOutput{Body: chapter}, nil
}

func (s *Server) handleUpdateChapter(ctx context.Context, input *UpdateChapterInput) (*ChapterOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	since, err := parseIfUnmodifiedSince(input.IfUnmodifiedSince)
	if err != nil {
		return nil, err
	}
	chapter, err := s.services.Chapters.Update(ctx, userID, input.BookID, input.ChapterID, service.UpdateChapterRequest{
		Title:       input.Body.Title,
		HTMLContent: input.Body.HTMLContent,
		Bg:          input.Body.Bg,
		BgMobile:    input.Body.BgMobile,
	}, since)
	if err != nil {
		return nil, err
	}
	return &ChapterOutput{Body: chapter}, nil
}

func (s *Server) handleDeleteChapter(ctx context.Context, input *ChapterParam) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Chapters.Delete(ctx, userID, input.BookID, input.ChapterID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleReorderChapters(ctx context.Context, input *ReorderChaptersInput) (*ChaptersOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	chapters, err := s.services.Chapters.Reorder(ctx, userID, input.BookID, input.Body.Order)
	if err != nil {
		return nil, err
	}
	return &ChaptersOutput{Body: chapters}, nil
}

func (s *Server) handleChapterContent(ctx context.Context, input *ChapterParam) (*ChapterContentOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	content, err := s.services.Chapters.Content(ctx, userID, input.BookID, input.ChapterID)
	if err != nil {
		return nil, err
	}
	return &ChapterContentOutput{Body: content}, nil
}
