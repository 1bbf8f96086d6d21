package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

// Theme blocks are stored as JSON documents; the reader consumes them as
// opaque units and individual colour fields never need SQL filtering.

func marshalTheme(t domain.ThemeAppearance) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal theme: %w", err)
	}
	return string(data), nil
}

func unmarshalTheme(data string) (domain.ThemeAppearance, error) {
	var t domain.ThemeAppearance
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return t, fmt.Errorf("unmarshal theme: %w", err)
	}
	return t, nil
}

func insertAppearance(ctx context.Context, e execer, a *domain.BookAppearance) error {
	lightJSON, err := marshalTheme(a.Light)
	if err != nil {
		return err
	}
	darkJSON, err := marshalTheme(a.Dark)
	if err != nil {
		return err
	}
	_, err = e.ExecContext(ctx, `
		INSERT INTO book_appearance (
			book_id, font_min, font_max, light_json, dark_json, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(book_id) DO UPDATE SET
			font_min = excluded.font_min,
			font_max = excluded.font_max,
			light_json = excluded.light_json,
			dark_json = excluded.dark_json,
			updated_at = excluded.updated_at`,
		a.BookID, a.FontMin, a.FontMax, lightJSON, darkJSON,
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt))
	return err
}

// GetAppearance retrieves a book's appearance record.
func (s *Store) GetAppearance(ctx context.Context, bookID string) (*domain.BookAppearance, error) {
	var (
		a         domain.BookAppearance
		lightJSON string
		darkJSON  string
		createdAt string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT book_id, font_min, font_max, light_json, dark_json, created_at, updated_at
		FROM book_appearance WHERE book_id = ?`, bookID).
		Scan(&a.BookID, &a.FontMin, &a.FontMax, &lightJSON, &darkJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if a.Light, err = unmarshalTheme(lightJSON); err != nil {
		return nil, err
	}
	if a.Dark, err = unmarshalTheme(darkJSON); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// PutAppearance upserts a book's appearance record.
func (s *Store) PutAppearance(ctx context.Context, appearance *domain.BookAppearance) error {
	return insertAppearance(ctx, s.db, appearance)
}

func insertSounds(ctx context.Context, e execer, snd *domain.BookSounds) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO book_sounds (
			book_id, page_flip, book_open, book_close, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(book_id) DO UPDATE SET
			page_flip = excluded.page_flip,
			book_open = excluded.book_open,
			book_close = excluded.book_close,
			updated_at = excluded.updated_at`,
		snd.BookID, snd.PageFlip, snd.BookOpen, snd.BookClose,
		formatTime(snd.CreatedAt), formatTime(snd.UpdatedAt))
	return err
}

// GetSounds retrieves a book's interface sound record.
func (s *Store) GetSounds(ctx context.Context, bookID string) (*domain.BookSounds, error) {
	var (
		snd       domain.BookSounds
		createdAt string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT book_id, page_flip, book_open, book_close, created_at, updated_at
		FROM book_sounds WHERE book_id = ?`, bookID).
		Scan(&snd.BookID, &snd.PageFlip, &snd.BookOpen, &snd.BookClose, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if snd.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if snd.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &snd, nil
}

// PutSounds upserts a book's interface sound record.
func (s *Store) PutSounds(ctx context.Context, sounds *domain.BookSounds) error {
	return insertSounds(ctx, s.db, sounds)
}

func insertDefaultSettings(ctx context.Context, e execer, def *domain.BookDefaultSettings) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO book_default_settings (
			book_id, font, font_size, theme, sound_enabled, sound_volume,
			ambient_type, ambient_volume, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(book_id) DO UPDATE SET
			font = excluded.font,
			font_size = excluded.font_size,
			theme = excluded.theme,
			sound_enabled = excluded.sound_enabled,
			sound_volume = excluded.sound_volume,
			ambient_type = excluded.ambient_type,
			ambient_volume = excluded.ambient_volume,
			updated_at = excluded.updated_at`,
		def.BookID, def.Font, def.FontSize, def.Theme,
		boolToInt(def.SoundEnabled), def.SoundVolume,
		def.AmbientType, def.AmbientVolume,
		formatTime(def.CreatedAt), formatTime(def.UpdatedAt))
	return err
}

// GetDefaultSettings retrieves a book's reader default settings.
func (s *Store) GetDefaultSettings(ctx context.Context, bookID string) (*domain.BookDefaultSettings, error) {
	var (
		def          domain.BookDefaultSettings
		soundEnabled int
		createdAt    string
		updatedAt    string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT book_id, font, font_size, theme, sound_enabled, sound_volume,
			ambient_type, ambient_volume, created_at, updated_at
		FROM book_default_settings WHERE book_id = ?`, bookID).
		Scan(&def.BookID, &def.Font, &def.FontSize, &def.Theme,
			&soundEnabled, &def.SoundVolume,
			&def.AmbientType, &def.AmbientVolume, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	def.SoundEnabled = soundEnabled != 0
	if def.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if def.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &def, nil
}

// PutDefaultSettings upserts a book's reader default settings.
func (s *Store) PutDefaultSettings(ctx context.Context, settings *domain.BookDefaultSettings) error {
	return insertDefaultSettings(ctx, s.db, settings)
}
