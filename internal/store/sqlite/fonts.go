package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

// readingFontColumns is the ordered list of columns selected in reading
// font queries. Must match the scan order in scanReadingFont.
const readingFontColumns = `id, created_at, updated_at, deleted_at, user_id, font_key,
	label, family, builtin, enabled, file_url, position`

// scanReadingFont scans a sql.Row (or sql.Rows via its Scan method) into a domain.ReadingFont.
func scanReadingFont(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingFont, error) {
	var f domain.ReadingFont

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
		builtin   int
		enabled   int
	)

	err := scanner.Scan(
		&f.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&f.UserID,
		&f.FontKey,
		&f.Label,
		&f.Family,
		&builtin,
		&enabled,
		&f.FileURL,
		&f.Position,
	)
	if err != nil {
		return nil, err
	}

	f.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	f.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	f.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	f.Builtin = builtin != 0
	f.Enabled = enabled != 0

	return &f, nil
}

func insertReadingFont(ctx context.Context, e execer, f *domain.ReadingFont) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO reading_fonts (
			id, created_at, updated_at, deleted_at, user_id, font_key,
			label, family, builtin, enabled, file_url, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID,
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
		nullTimeString(f.DeletedAt),
		f.UserID,
		f.FontKey,
		f.Label,
		f.Family,
		boolToInt(f.Builtin),
		boolToInt(f.Enabled),
		f.FileURL,
		f.Position,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// CreateReadingFont inserts a new reading font.
// Returns store.ErrAlreadyExists if the key is taken for the user.
func (s *Store) CreateReadingFont(ctx context.Context, font *domain.ReadingFont) error {
	return insertReadingFont(ctx, s.db, font)
}

// CreateReadingFonts inserts a batch of reading fonts in one transaction.
// Used when seeding a new user's builtin fonts.
func (s *Store) CreateReadingFonts(ctx context.Context, fonts []*domain.ReadingFont) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, font := range fonts {
			if err := insertReadingFont(ctx, tx, font); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetReadingFont retrieves a reading font by ID, excluding soft-deleted records.
func (s *Store) GetReadingFont(ctx context.Context, fontID string) (*domain.ReadingFont, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+readingFontColumns+` FROM reading_fonts WHERE id = ? AND deleted_at IS NULL`, fontID)

	f, err := scanReadingFont(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListReadingFonts returns a user's reading fonts ordered by position.
func (s *Store) ListReadingFonts(ctx context.Context, userID string) ([]*domain.ReadingFont, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+readingFontColumns+` FROM reading_fonts
		WHERE user_id = ? AND deleted_at IS NULL ORDER BY position ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fonts []*domain.ReadingFont
	for rows.Next() {
		f, err := scanReadingFont(rows)
		if err != nil {
			return nil, err
		}
		fonts = append(fonts, f)
	}
	return fonts, rows.Err()
}

// UpdateReadingFont performs a full row update on an existing reading font.
func (s *Store) UpdateReadingFont(ctx context.Context, font *domain.ReadingFont) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reading_fonts SET
			updated_at = ?,
			label = ?,
			family = ?,
			enabled = ?,
			file_url = ?,
			position = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(font.UpdatedAt),
		font.Label,
		font.Family,
		boolToInt(font.Enabled),
		font.FileURL,
		font.Position,
		font.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DeleteReadingFont performs a soft delete. Builtin checks live in the service.
func (s *Store) DeleteReadingFont(ctx context.Context, fontID string) error {
	now := formatTime(time.Now())
	result, err := s.db.ExecContext(ctx, `
		UPDATE reading_fonts SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		now, now, fontID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// NextReadingFontPosition returns the append position for a user's next font.
func (s *Store) NextReadingFontPosition(ctx context.Context, userID string) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position) + 1, 0) FROM reading_fonts
		WHERE user_id = ? AND deleted_at IS NULL`, userID).Scan(&next)
	return next, err
}

// ReorderReadingFonts rewrites a user's font positions to match orderedIDs.
func (s *Store) ReorderReadingFonts(ctx context.Context, userID string, orderedIDs []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := collectIDs(ctx, tx,
			`SELECT id FROM reading_fonts WHERE user_id = ? AND deleted_at IS NULL`, userID)
		if err != nil {
			return err
		}
		if !sameIDSet(current, orderedIDs) {
			return store.ErrConflict
		}

		now := formatTime(time.Now())
		for pos, fontID := range orderedIDs {
			if _, err := tx.ExecContext(ctx, `
				UPDATE reading_fonts SET position = ?, updated_at = ? WHERE id = ?`,
				pos, now, fontID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetDecorativeFont retrieves a book's decorative title font.
func (s *Store) GetDecorativeFont(ctx context.Context, bookID string) (*domain.DecorativeFont, error) {
	var (
		f         domain.DecorativeFont
		createdAt string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT book_id, name, file_url, created_at, updated_at
		FROM decorative_fonts WHERE book_id = ?`, bookID).
		Scan(&f.BookID, &f.Name, &f.FileURL, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// PutDecorativeFont upserts a book's decorative title font.
func (s *Store) PutDecorativeFont(ctx context.Context, font *domain.DecorativeFont) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decorative_fonts (book_id, name, file_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(book_id) DO UPDATE SET
			name = excluded.name,
			file_url = excluded.file_url,
			updated_at = excluded.updated_at`,
		font.BookID, font.Name, font.FileURL,
		formatTime(font.CreatedAt), formatTime(font.UpdatedAt))
	return err
}

// DeleteDecorativeFont removes a book's decorative title font.
func (s *Store) DeleteDecorativeFont(ctx context.Context, bookID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM decorative_fonts WHERE book_id = ?`, bookID)
	if err != nil {
		return err
	}
	return requireRow(result)
}
