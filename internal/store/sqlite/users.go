package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, deleted_at, email, email_lower,
	password_hash, display_name, username, bio, avatar_url,
	reset_token_hash, reset_token_expires`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		createdAt    string
		updatedAt    string
		deletedAt    sql.NullString
		emailLower   string
		passwordH    sql.NullString
		resetHash    sql.NullString
		resetExpires sql.NullString
	)

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&u.Email,
		&emailLower,
		&passwordH,
		&u.DisplayName,
		&u.Username,
		&u.Bio,
		&u.AvatarURL,
		&resetHash,
		&resetExpires,
	)
	if err != nil {
		return nil, err
	}
	_ = emailLower

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	u.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	if passwordH.Valid {
		u.PasswordHash = passwordH.String
	}
	if resetHash.Valid {
		u.ResetTokenHash = resetHash.String
	}
	u.ResetTokenExpires, err = parseNullableTime(resetExpires)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateUser inserts a new user and seeds the builtin reading fonts and
// global settings in the same transaction.
// Returns store.ErrAlreadyExists if the email is already registered.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (
				id, created_at, updated_at, deleted_at, email, email_lower,
				password_hash, display_name, username, bio, avatar_url,
				reset_token_hash, reset_token_expires
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			user.ID,
			formatTime(user.CreatedAt),
			formatTime(user.UpdatedAt),
			nullTimeString(user.DeletedAt),
			user.Email,
			user.EmailLower(),
			nullString(user.PasswordHash),
			user.DisplayName,
			user.Username,
			user.Bio,
			user.AvatarURL,
			nullString(user.ResetTokenHash),
			nullTimeString(user.ResetTokenExpires),
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return store.ErrAlreadyExists
			}
			return err
		}

		for _, font := range domain.SeedReadingFonts(user.ID) {
			font.ID = id.MustGenerate("font")
			if err := insertReadingFont(ctx, tx, font); err != nil {
				return err
			}
		}
		return upsertGlobalSettings(ctx, tx, domain.NewGlobalSettings(user.ID))
	})
}

// GetUser retrieves a user by ID, excluding soft-deleted records.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? AND deleted_at IS NULL`, id)
	return userOrNotFound(scanUser(row))
}

// GetUserByEmail retrieves a user by case-insensitive email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	lower := strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ? AND deleted_at IS NULL`, lower)
	return userOrNotFound(scanUser(row))
}

// GetUserByResetToken retrieves a user by password reset token hash.
func (s *Store) GetUserByResetToken(ctx context.Context, tokenHash string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE reset_token_hash = ? AND deleted_at IS NULL`, tokenHash)
	return userOrNotFound(scanUser(row))
}

func userOrNotFound(u *domain.User, err error) (*domain.User, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser performs a full row update on an existing user.
// Returns store.ErrNotFound if the user does not exist or is soft-deleted.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			updated_at = ?,
			email = ?,
			email_lower = ?,
			password_hash = ?,
			display_name = ?,
			username = ?,
			bio = ?,
			avatar_url = ?,
			reset_token_hash = ?,
			reset_token_expires = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(user.UpdatedAt),
		user.Email,
		user.EmailLower(),
		nullString(user.PasswordHash),
		user.DisplayName,
		user.Username,
		user.Bio,
		user.AvatarURL,
		nullString(user.ResetTokenHash),
		nullTimeString(user.ResetTokenExpires),
		user.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
