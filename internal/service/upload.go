package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/objstore"
	"github.com/readwellapp/readwell-server/internal/parser"
	"github.com/readwellapp/readwell-server/internal/store"
	"github.com/readwellapp/readwell-server/internal/upload"
)

// UploadService handles file uploads: assets are persisted through the
// object store, books are parsed into a chapter tree and discarded.
type UploadService struct {
	store   store.Store
	books   *BookService
	storage objstore.Storage
	log     *logger.Logger
}

// NewUploadService creates an upload service.
func NewUploadService(st store.Store, books *BookService, storage objstore.Storage, log *logger.Logger) *UploadService {
	return &UploadService{store: st, books: books, storage: storage, log: log}
}

// UploadAsset checks a font, sound, or image upload against its kind's
// policy and stores it, returning the public URL.
func (s *UploadService) UploadAsset(ctx context.Context, kind objstore.Kind, filename, contentType string, size int64, r io.Reader) (string, error) {
	if err := upload.Check(kind, filename, contentType, size); err != nil {
		return "", err
	}

	name := uuid.NewString() + upload.Ext(filename)

	url, err := s.storage.Put(ctx, kind, name, contentType, r, size)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	s.log.Info("asset uploaded", "kind", kind, "name", name, "size", size)
	return url, nil
}

// UploadBook parses an uploaded book file and creates the book with its
// chapters under the caller. The file bytes are not retained.
func (s *UploadService) UploadBook(ctx context.Context, userID, filename, contentType string, size int64, r io.Reader) (*domain.Book, []*domain.Chapter, error) {
	if err := upload.Check(objstore.KindBook, filename, contentType, size); err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r, upload.MaxBookSize+1)); err != nil {
		return nil, nil, fmt.Errorf("read upload: %w", err)
	}

	parsed, err := parser.Parse(filename, buf.Bytes())
	if err != nil {
		return nil, nil, err
	}

	book, err := s.books.Create(ctx, userID, CreateBookRequest{
		Title:  clipString(parsed.Title, 200),
		Author: clipString(parsed.Author, 120),
	})
	if err != nil {
		return nil, nil, err
	}

	chapters := make([]*domain.Chapter, 0, len(parsed.Chapters))
	for i, ch := range parsed.Chapters {
		chapter := &domain.Chapter{
			BookID:      book.ID,
			Title:       clipString(ch.Title, 200),
			Position:    i,
			HTMLContent: ch.HTML,
		}
		chapter.ID, err = id.Generate("chap")
		if err != nil {
			return nil, nil, fmt.Errorf("generate chapter ID: %w", err)
		}
		chapter.InitTimestamps()
		chapters = append(chapters, chapter)
	}
	if err := s.store.CreateChapters(ctx, chapters); err != nil {
		return nil, nil, fmt.Errorf("create chapters: %w", err)
	}

	s.log.Info("book uploaded", "book_id", book.ID, "chapters", len(chapters), "file", filename)
	return book, chapters, nil
}

func clipString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
