package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

// GetProgress retrieves reading progress for a (user, book) pair.
func (s *Store) GetProgress(ctx context.Context, userID, bookID string) (*domain.ReadingProgress, error) {
	var (
		p            domain.ReadingProgress
		soundEnabled int
		updatedAt    string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, book_id, page, font, font_size, theme,
			sound_enabled, sound_volume, ambient_type, ambient_volume, updated_at
		FROM reading_progress WHERE user_id = ? AND book_id = ?`, userID, bookID).
		Scan(&p.UserID, &p.BookID, &p.Page, &p.Font, &p.FontSize, &p.Theme,
			&soundEnabled, &p.SoundVolume, &p.AmbientType, &p.AmbientVolume, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.SoundEnabled = soundEnabled != 0
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// PutProgress upserts reading progress. Last write wins; readers on two
// devices simply overwrite each other.
func (s *Store) PutProgress(ctx context.Context, progress *domain.ReadingProgress) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_progress (
			user_id, book_id, page, font, font_size, theme,
			sound_enabled, sound_volume, ambient_type, ambient_volume, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, book_id) DO UPDATE SET
			page = excluded.page,
			font = excluded.font,
			font_size = excluded.font_size,
			theme = excluded.theme,
			sound_enabled = excluded.sound_enabled,
			sound_volume = excluded.sound_volume,
			ambient_type = excluded.ambient_type,
			ambient_volume = excluded.ambient_volume,
			updated_at = excluded.updated_at`,
		progress.UserID, progress.BookID, progress.Page, progress.Font,
		progress.FontSize, progress.Theme,
		boolToInt(progress.SoundEnabled), progress.SoundVolume,
		progress.AmbientType, progress.AmbientVolume,
		formatTime(progress.UpdatedAt))
	return err
}
