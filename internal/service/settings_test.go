package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
)

func TestGlobalSettingsDefaults(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")

	settings, err := e.settings.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, settings.FontMin)
	assert.True(t, settings.Visibility.Theme)
}

func TestUpdateGlobalSettings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")

	updated, err := e.settings.Update(ctx, u.ID, UpdateSettingsRequest{
		FontMax: intPtr(36),
		Visibility: &VisibilityPatch{
			Ambient: boolPtr(false),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 36, updated.FontMax)
	assert.False(t, updated.Visibility.Ambient)
	// Untouched toggles survive the patch.
	assert.True(t, updated.Visibility.Theme)

	got, err := e.settings.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 36, got.FontMax)
	assert.False(t, got.Visibility.Ambient)
}

func TestUpdateGlobalSettingsRejectsInvertedRange(t *testing.T) {
	e := newEnv(t)

	u := e.registerUser(t, "reader@example.com")

	_, err := e.settings.Update(context.Background(), u.ID, UpdateSettingsRequest{
		FontMin: intPtr(40),
		FontMax: intPtr(12),
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
