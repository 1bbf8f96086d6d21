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

// GetGlobalSettings retrieves a user's global reader settings.
func (s *Store) GetGlobalSettings(ctx context.Context, userID string) (*domain.GlobalSettings, error) {
	var (
		gs             domain.GlobalSettings
		visibilityJSON string
		createdAt      string
		updatedAt      string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, font_min, font_max, visibility_json, created_at, updated_at
		FROM global_settings WHERE user_id = ?`, userID).
		Scan(&gs.UserID, &gs.FontMin, &gs.FontMax, &visibilityJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(visibilityJSON), &gs.Visibility); err != nil {
		return nil, fmt.Errorf("unmarshal visibility: %w", err)
	}
	if gs.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if gs.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &gs, nil
}

// PutGlobalSettings upserts a user's global reader settings.
func (s *Store) PutGlobalSettings(ctx context.Context, settings *domain.GlobalSettings) error {
	return upsertGlobalSettings(ctx, s.db, settings)
}

func upsertGlobalSettings(ctx context.Context, e execer, settings *domain.GlobalSettings) error {
	visibilityJSON, err := json.Marshal(settings.Visibility)
	if err != nil {
		return fmt.Errorf("marshal visibility: %w", err)
	}

	_, err = e.ExecContext(ctx, `
		INSERT INTO global_settings (
			user_id, font_min, font_max, visibility_json, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			font_min = excluded.font_min,
			font_max = excluded.font_max,
			visibility_json = excluded.visibility_json,
			updated_at = excluded.updated_at`,
		settings.UserID, settings.FontMin, settings.FontMax, string(visibilityJSON),
		formatTime(settings.CreatedAt), formatTime(settings.UpdatedAt))
	return err
}
