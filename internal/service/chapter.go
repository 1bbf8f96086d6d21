package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/readwellapp/readwell-server/internal/domain"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/objstore"
	"github.com/readwellapp/readwell-server/internal/parser"
	"github.com/readwellapp/readwell-server/internal/store"
)

// maxChapterContentSize caps chapter HTML at 2 MB, both on write and when
// file-backed content is read back into memory.
const maxChapterContentSize = 2 << 20

// ChapterService manages chapters within a book.
type ChapterService struct {
	store   store.Store
	books   *BookService
	storage objstore.Storage
	log     *logger.Logger
}

// NewChapterService creates a chapter service.
func NewChapterService(st store.Store, books *BookService, storage objstore.Storage, log *logger.Logger) *ChapterService {
	return &ChapterService{store: st, books: books, storage: storage, log: log}
}

// CreateChapterRequest contains new chapter data.
type CreateChapterRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	HTMLContent string `json:"htmlContent" validate:"max=2097152"`
}

// UpdateChapterRequest contains the editable chapter fields. Nil fields are
// left unchanged.
type UpdateChapterRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	HTMLContent *string `json:"htmlContent,omitempty" validate:"omitempty,max=2097152"`
	Bg          *string `json:"bg,omitempty" validate:"omitempty,max=2048,safeurl"`
	BgMobile    *string `json:"bgMobile,omitempty" validate:"omitempty,max=2048,safeurl"`
}

// Create appends a chapter to a book. Inline content is sanitized before it
// is stored.
func (s *ChapterService) Create(ctx context.Context, userID, bookID string, req CreateChapterRequest) (*domain.Chapter, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}

	position, err := s.store.NextChapterPosition(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("next chapter position: %w", err)
	}

	chapter := &domain.Chapter{
		BookID:   bookID,
		Title:    req.Title,
		Position: position,
	}
	if req.HTMLContent != "" {
		chapter.HTMLContent = parser.Sanitize(req.HTMLContent)
	}
	chapter.ID, err = id.Generate("chap")
	if err != nil {
		return nil, fmt.Errorf("generate chapter ID: %w", err)
	}
	chapter.InitTimestamps()

	if err := s.store.CreateChapter(ctx, chapter); err != nil {
		return nil, fmt.Errorf("create chapter: %w", err)
	}
	return chapter, nil
}

// Get returns one chapter of one of the caller's books.
func (s *ChapterService) Get(ctx context.Context, userID, bookID, chapterID string) (*domain.Chapter, error) {
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}
	return s.requireInBook(ctx, bookID, chapterID)
}

// List returns a book's chapters in reading order.
func (s *ChapterService) List(ctx context.Context, userID, bookID string) ([]*domain.Chapter, error) {
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}
	chapters, err := s.store.ListChapters(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return chapters, nil
}

// Update applies a partial update with the same optimistic concurrency rule
// as books.
func (s *ChapterService) Update(ctx context.Context, userID, bookID, chapterID string, req UpdateChapterRequest, ifUnmodifiedSince *time.Time) (*domain.Chapter, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}

	chapter, err := s.requireInBook(ctx, bookID, chapterID)
	if err != nil {
		return nil, err
	}
	if ifUnmodifiedSince != nil && chapter.UpdatedAt.After(*ifUnmodifiedSince) {
		return nil, domainerrors.Conflict("chapter was modified by another request")
	}

	if req.Title != nil {
		chapter.Title = *req.Title
	}
	if req.HTMLContent != nil {
		chapter.HTMLContent = parser.Sanitize(*req.HTMLContent)
		chapter.FilePath = ""
	}
	if req.Bg != nil {
		chapter.Bg = *req.Bg
	}
	if req.BgMobile != nil {
		chapter.BgMobile = *req.BgMobile
	}
	chapter.Touch()

	if err := s.store.UpdateChapter(ctx, chapter); err != nil {
		return nil, notFoundOr(err, "chapter")
	}
	return chapter, nil
}

// Delete soft-deletes a chapter.
func (s *ChapterService) Delete(ctx context.Context, userID, bookID, chapterID string) error {
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return err
	}
	if _, err := s.requireInBook(ctx, bookID, chapterID); err != nil {
		return err
	}
	if err := s.store.DeleteChapter(ctx, chapterID); err != nil {
		return notFoundOr(err, "chapter")
	}
	return nil
}

// Reorder renumbers a book's chapters to the given full ID list.
func (s *ChapterService) Reorder(ctx context.Context, userID, bookID string, orderedIDs []string) ([]*domain.Chapter, error) {
	if len(orderedIDs) == 0 {
		return nil, domainerrors.Validation("order must not be empty")
	}
	if _, err := s.books.requireOwned(ctx, userID, bookID); err != nil {
		return nil, err
	}
	if err := s.store.ReorderChapters(ctx, bookID, orderedIDs); err != nil {
		if domainerrors.Is(err, store.ErrConflict) {
			return nil, domainerrors.Conflict("order does not match the current set of chapters")
		}
		return nil, fmt.Errorf("reorder chapters: %w", err)
	}
	chapters, err := s.store.ListChapters(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return chapters, nil
}

// Content returns the chapter body as sanitized <article> HTML, reading it
// from the object store when the chapter is file-backed.
func (s *ChapterService) Content(ctx context.Context, userID, bookID, chapterID string) (string, error) {
	chapter, err := s.Get(ctx, userID, bookID, chapterID)
	if err != nil {
		return "", err
	}

	if chapter.HasInlineContent() {
		return chapter.HTMLContent, nil
	}
	if chapter.FilePath == "" {
		return parser.Sanitize(""), nil
	}

	rc, err := s.storage.Get(ctx, chapter.FilePath)
	if err != nil {
		s.log.Error("read chapter file", "chapter_id", chapterID, "error", err)
		return "", domainerrors.NotFound("chapter content not found")
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, maxChapterContentSize))
	if err != nil {
		return "", fmt.Errorf("read chapter content: %w", err)
	}
	return parser.Sanitize(string(raw)), nil
}

// requireInBook loads a chapter and verifies it belongs to the book.
func (s *ChapterService) requireInBook(ctx context.Context, bookID, chapterID string) (*domain.Chapter, error) {
	chapter, err := s.store.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, notFoundOr(err, "chapter")
	}
	if chapter.BookID != bookID {
		return nil, domainerrors.NotFound("chapter not found")
	}
	return chapter, nil
}
