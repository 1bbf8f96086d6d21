package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/objstore"
)

func TestCreateCustomReadingFont(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")

	seeded, err := e.fonts.ListReadingFonts(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, seeded)

	font, err := e.fonts.CreateReadingFont(ctx, u.ID, CreateReadingFontRequest{
		FontKey: "garamond",
		Label:   "Garamond",
		Family:  "Garamond, serif",
		FileURL: "/uploads/fonts/garamond.woff2",
	})
	require.NoError(t, err)
	assert.False(t, font.Builtin)
	assert.True(t, font.Enabled)
	assert.Equal(t, len(seeded), font.Position)

	_, err = e.fonts.CreateReadingFont(ctx, u.ID, CreateReadingFontRequest{
		FontKey: "garamond",
		Label:   "Again",
		Family:  "Garamond",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestBuiltinFontProtections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")

	fonts, err := e.fonts.ListReadingFonts(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, fonts)
	builtin := fonts[0]
	require.True(t, builtin.Builtin)

	// Disabling a builtin is fine.
	updated, err := e.fonts.UpdateReadingFont(ctx, u.ID, builtin.ID, UpdateReadingFontRequest{
		Enabled: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.Enabled)

	// Changing its family or deleting it is not.
	_, err = e.fonts.UpdateReadingFont(ctx, u.ID, builtin.ID, UpdateReadingFontRequest{
		Family: strPtr("Comic Sans MS"),
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	err = e.fonts.DeleteReadingFont(ctx, u.ID, builtin.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestDeleteCustomFontRemovesFile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")

	url, err := e.storage.Put(ctx, objstore.KindFont, "custom.woff2", "font/woff2",
		strings.NewReader("woff2 bytes"), 11)
	require.NoError(t, err)

	font, err := e.fonts.CreateReadingFont(ctx, u.ID, CreateReadingFontRequest{
		FontKey: "custom1",
		Label:   "Custom",
		Family:  "Custom",
		FileURL: url,
	})
	require.NoError(t, err)

	require.NoError(t, e.fonts.DeleteReadingFont(ctx, u.ID, font.ID))

	_, err = e.storage.Get(ctx, url)
	assert.Error(t, err)
}

func TestReadingFontsAreScopedToUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := e.registerUser(t, "owner@example.com")
	stranger := e.registerUser(t, "stranger@example.com")

	font, err := e.fonts.CreateReadingFont(ctx, owner.ID, CreateReadingFontRequest{
		FontKey: "mine",
		Label:   "Mine",
		Family:  "Mine",
	})
	require.NoError(t, err)

	_, err = e.fonts.UpdateReadingFont(ctx, stranger.ID, font.ID, UpdateReadingFontRequest{
		Label: strPtr("Stolen"),
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestDecorativeFontLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")
	book := e.createBook(t, u.ID, "Book")

	_, err := e.fonts.GetDecorativeFont(ctx, u.ID, book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	font, err := e.fonts.PutDecorativeFont(ctx, u.ID, book.ID, PutDecorativeFontRequest{
		Name:    "Blackletter",
		FileURL: "/uploads/fonts/blackletter.woff2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Blackletter", font.Name)

	got, err := e.fonts.GetDecorativeFont(ctx, u.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, font.Name, got.Name)

	require.NoError(t, e.fonts.DeleteDecorativeFont(ctx, u.ID, book.ID))

	_, err = e.fonts.GetDecorativeFont(ctx, u.ID, book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
