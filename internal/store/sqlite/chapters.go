package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

// chapterColumns is the ordered list of columns selected in chapter queries.
// Must match the scan order in scanChapter.
const chapterColumns = `id, created_at, updated_at, deleted_at, book_id, title,
	position, file_path, html_content, bg, bg_mobile`

// scanChapter scans a sql.Row (or sql.Rows via its Scan method) into a domain.Chapter.
func scanChapter(scanner interface{ Scan(dest ...any) error }) (*domain.Chapter, error) {
	var c domain.Chapter

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
	)

	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&c.BookID,
		&c.Title,
		&c.Position,
		&c.FilePath,
		&c.HTMLContent,
		&c.Bg,
		&c.BgMobile,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	c.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func insertChapter(ctx context.Context, e execer, chapter *domain.Chapter) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO chapters (
			id, created_at, updated_at, deleted_at, book_id, title,
			position, file_path, html_content, bg, bg_mobile
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		chapter.ID,
		formatTime(chapter.CreatedAt),
		formatTime(chapter.UpdatedAt),
		nullTimeString(chapter.DeletedAt),
		chapter.BookID,
		chapter.Title,
		chapter.Position,
		chapter.FilePath,
		chapter.HTMLContent,
		chapter.Bg,
		chapter.BgMobile,
	)
	return err
}

// CreateChapter inserts a single chapter.
func (s *Store) CreateChapter(ctx context.Context, chapter *domain.Chapter) error {
	return insertChapter(ctx, s.db, chapter)
}

// CreateChapters inserts a batch of chapters in one transaction. Used by
// the book upload parser so a failed parse leaves nothing behind.
func (s *Store) CreateChapters(ctx context.Context, chapters []*domain.Chapter) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, chapter := range chapters {
			if err := insertChapter(ctx, tx, chapter); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetChapter retrieves a chapter by ID, excluding soft-deleted records.
func (s *Store) GetChapter(ctx context.Context, chapterID string) (*domain.Chapter, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters WHERE id = ? AND deleted_at IS NULL`, chapterID)

	c, err := scanChapter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListChapters returns a book's chapters ordered by position.
func (s *Store) ListChapters(ctx context.Context, bookID string) ([]*domain.Chapter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters
		WHERE book_id = ? AND deleted_at IS NULL ORDER BY position ASC`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []*domain.Chapter
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

// UpdateChapter performs a full row update on an existing chapter.
func (s *Store) UpdateChapter(ctx context.Context, chapter *domain.Chapter) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE chapters SET
			updated_at = ?,
			title = ?,
			position = ?,
			file_path = ?,
			html_content = ?,
			bg = ?,
			bg_mobile = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(chapter.UpdatedAt),
		chapter.Title,
		chapter.Position,
		chapter.FilePath,
		chapter.HTMLContent,
		chapter.Bg,
		chapter.BgMobile,
		chapter.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DeleteChapter performs a soft delete.
func (s *Store) DeleteChapter(ctx context.Context, chapterID string) error {
	now := formatTime(time.Now())
	result, err := s.db.ExecContext(ctx, `
		UPDATE chapters SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		now, now, chapterID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// NextChapterPosition returns the append position for a book's next chapter.
func (s *Store) NextChapterPosition(ctx context.Context, bookID string) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position) + 1, 0) FROM chapters
		WHERE book_id = ? AND deleted_at IS NULL`, bookID).Scan(&next)
	return next, err
}

// ReorderChapters rewrites a book's chapter positions to match orderedIDs.
// The ID set must exactly match the book's current chapters or
// store.ErrConflict is returned and nothing changes.
func (s *Store) ReorderChapters(ctx context.Context, bookID string, orderedIDs []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := collectIDs(ctx, tx,
			`SELECT id FROM chapters WHERE book_id = ? AND deleted_at IS NULL`, bookID)
		if err != nil {
			return err
		}
		if !sameIDSet(current, orderedIDs) {
			return store.ErrConflict
		}

		now := formatTime(time.Now())
		for pos, chapterID := range orderedIDs {
			if _, err := tx.ExecContext(ctx, `
				UPDATE chapters SET position = ?, updated_at = ? WHERE id = ?`,
				pos, now, chapterID); err != nil {
				return err
			}
		}
		return nil
	})
}
