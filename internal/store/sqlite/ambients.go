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

// ambientColumns is the ordered list of columns selected in ambient queries.
// Must match the scan order in scanAmbient.
const ambientColumns = `id, created_at, updated_at, deleted_at, book_id, ambient_key,
	label, short_label, icon, file_url, visible, builtin, position`

// scanAmbient scans a sql.Row (or sql.Rows via its Scan method) into a domain.Ambient.
func scanAmbient(scanner interface{ Scan(dest ...any) error }) (*domain.Ambient, error) {
	var a domain.Ambient

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
		visible   int
		builtin   int
	)

	err := scanner.Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&a.BookID,
		&a.AmbientKey,
		&a.Label,
		&a.ShortLabel,
		&a.Icon,
		&a.FileURL,
		&visible,
		&builtin,
		&a.Position,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	a.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	a.Visible = visible != 0
	a.Builtin = builtin != 0

	return &a, nil
}

func insertAmbient(ctx context.Context, e execer, a *domain.Ambient) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO ambients (
			id, created_at, updated_at, deleted_at, book_id, ambient_key,
			label, short_label, icon, file_url, visible, builtin, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
		nullTimeString(a.DeletedAt),
		a.BookID,
		a.AmbientKey,
		a.Label,
		a.ShortLabel,
		a.Icon,
		a.FileURL,
		boolToInt(a.Visible),
		boolToInt(a.Builtin),
		a.Position,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// CreateAmbient inserts a new ambient entry.
// Returns store.ErrAlreadyExists if the key is taken within the book.
func (s *Store) CreateAmbient(ctx context.Context, ambient *domain.Ambient) error {
	return insertAmbient(ctx, s.db, ambient)
}

// GetAmbient retrieves an ambient by ID, excluding soft-deleted records.
func (s *Store) GetAmbient(ctx context.Context, ambientID string) (*domain.Ambient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ambientColumns+` FROM ambients WHERE id = ? AND deleted_at IS NULL`, ambientID)

	a, err := scanAmbient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAmbients returns a book's ambients ordered by position.
func (s *Store) ListAmbients(ctx context.Context, bookID string) ([]*domain.Ambient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ambientColumns+` FROM ambients
		WHERE book_id = ? AND deleted_at IS NULL ORDER BY position ASC`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ambients []*domain.Ambient
	for rows.Next() {
		a, err := scanAmbient(rows)
		if err != nil {
			return nil, err
		}
		ambients = append(ambients, a)
	}
	return ambients, rows.Err()
}

// UpdateAmbient performs a full row update on an existing ambient.
func (s *Store) UpdateAmbient(ctx context.Context, ambient *domain.Ambient) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE ambients SET
			updated_at = ?,
			label = ?,
			short_label = ?,
			icon = ?,
			file_url = ?,
			visible = ?,
			position = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(ambient.UpdatedAt),
		ambient.Label,
		ambient.ShortLabel,
		ambient.Icon,
		ambient.FileURL,
		boolToInt(ambient.Visible),
		ambient.Position,
		ambient.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DeleteAmbient performs a soft delete. Builtin checks live in the service.
func (s *Store) DeleteAmbient(ctx context.Context, ambientID string) error {
	now := formatTime(time.Now())
	result, err := s.db.ExecContext(ctx, `
		UPDATE ambients SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		now, now, ambientID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// NextAmbientPosition returns the append position for a book's next ambient.
func (s *Store) NextAmbientPosition(ctx context.Context, bookID string) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position) + 1, 0) FROM ambients
		WHERE book_id = ? AND deleted_at IS NULL`, bookID).Scan(&next)
	return next, err
}

// ReorderAmbients rewrites a book's ambient positions to match orderedIDs.
func (s *Store) ReorderAmbients(ctx context.Context, bookID string, orderedIDs []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := collectIDs(ctx, tx,
			`SELECT id FROM ambients WHERE book_id = ? AND deleted_at IS NULL`, bookID)
		if err != nil {
			return err
		}
		if !sameIDSet(current, orderedIDs) {
			return store.ErrConflict
		}

		now := formatTime(time.Now())
		for pos, ambientID := range orderedIDs {
			if _, err := tx.ExecContext(ctx, `
				UPDATE ambients SET position = ?, updated_at = ? WHERE id = ?`,
				pos, now, ambientID); err != nil {
				return err
			}
		}
		return nil
	})
}
