package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, deleted_at, user_id, title, author,
	position, visibility, cover_bg_mode, cover_bg_custom_url`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt  string
		updatedAt  string
		deletedAt  sql.NullString
		visibility string
		coverMode  string
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&b.UserID,
		&b.Title,
		&b.Author,
		&b.Position,
		&visibility,
		&coverMode,
		&b.CoverBgCustomURL,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	b.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	b.Visibility = domain.Visibility(visibility)
	b.CoverBgMode = domain.CoverBgMode(coverMode)

	return &b, nil
}

// CreateBook inserts a book and seeds its appearance, sounds, reader
// defaults and builtin ambients in a single transaction. A book is never
// visible without its satellite rows.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertBook(ctx, tx, book); err != nil {
			return err
		}
		if err := insertAppearance(ctx, tx, domain.NewBookAppearance(book.ID)); err != nil {
			return err
		}
		if err := insertSounds(ctx, tx, domain.NewBookSounds(book.ID)); err != nil {
			return err
		}
		if err := insertDefaultSettings(ctx, tx, domain.NewBookDefaultSettings(book.ID)); err != nil {
			return err
		}
		for _, ambient := range domain.SeedAmbients(book.ID) {
			ambient.ID = id.MustGenerate("amb")
			if err := insertAmbient(ctx, tx, ambient); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertBook(ctx context.Context, e execer, book *domain.Book) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, updated_at, deleted_at, user_id, title, author,
			position, visibility, cover_bg_mode, cover_bg_custom_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		nullTimeString(book.DeletedAt),
		book.UserID,
		book.Title,
		book.Author,
		book.Position,
		string(book.Visibility),
		string(book.CoverBgMode),
		book.CoverBgCustomURL,
	)
	return err
}

// GetBook retrieves a book by ID, excluding soft-deleted records.
func (s *Store) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ? AND deleted_at IS NULL`, bookID)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns a user's books ordered by position.
func (s *Store) ListBooks(ctx context.Context, userID string) ([]*domain.Book, error) {
	return s.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books
		WHERE user_id = ? AND deleted_at IS NULL ORDER BY position ASC`, userID)
}

// ListPublishedBooks returns every published book across all users,
// newest first. Powers the public discover feed.
func (s *Store) ListPublishedBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books
		WHERE visibility = ? AND deleted_at IS NULL ORDER BY created_at DESC`,
		string(domain.VisibilityPublished))
}

func (s *Store) queryBooks(ctx context.Context, query string, args ...any) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// UpdateBook performs a full row update on an existing book.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			updated_at = ?,
			title = ?,
			author = ?,
			position = ?,
			visibility = ?,
			cover_bg_mode = ?,
			cover_bg_custom_url = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(book.UpdatedAt),
		book.Title,
		book.Author,
		book.Position,
		string(book.Visibility),
		string(book.CoverBgMode),
		book.CoverBgCustomURL,
		book.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DeleteBook performs a soft delete. Satellite rows stay behind the
// foreign key and disappear with the book on eventual purge.
func (s *Store) DeleteBook(ctx context.Context, bookID string) error {
	now := formatTime(time.Now())
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		now, now, bookID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// NextBookPosition returns the append position for a user's next book.
func (s *Store) NextBookPosition(ctx context.Context, userID string) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position) + 1, 0) FROM books
		WHERE user_id = ? AND deleted_at IS NULL`, userID).Scan(&next)
	return next, err
}

// CountBooks returns the number of non-deleted books a user owns.
func (s *Store) CountBooks(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM books
		WHERE user_id = ? AND deleted_at IS NULL`, userID).Scan(&n)
	return n, err
}

// ReorderBooks rewrites a user's book positions to match orderedIDs.
// The ID set must exactly match the user's current books or
// store.ErrConflict is returned and nothing changes.
func (s *Store) ReorderBooks(ctx context.Context, userID string, orderedIDs []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := collectIDs(ctx, tx,
			`SELECT id FROM books WHERE user_id = ? AND deleted_at IS NULL`, userID)
		if err != nil {
			return err
		}
		if !sameIDSet(current, orderedIDs) {
			return store.ErrConflict
		}

		now := formatTime(time.Now())
		for pos, bookID := range orderedIDs {
			if _, err := tx.ExecContext(ctx, `
				UPDATE books SET position = ?, updated_at = ? WHERE id = ?`,
				pos, now, bookID); err != nil {
				return err
			}
		}
		return nil
	})
}

// collectIDs runs a single-column ID query and returns the values.
func collectIDs(ctx context.Context, e execer, query string, args ...any) ([]string, error) {
	rows, err := e.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var rowID string
		if err := rows.Scan(&rowID); err != nil {
			return nil, err
		}
		ids = append(ids, rowID)
	}
	return ids, rows.Err()
}

// sameIDSet reports whether two ID slices contain exactly the same set,
// with no duplicates in b.
func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if !set[v] {
			return false
		}
		delete(set, v)
	}
	return len(set) == 0
}

// requireRow converts a zero-row update into store.ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
