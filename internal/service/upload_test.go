package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/objstore"
	"github.com/readwellapp/readwell-server/internal/upload"
)

func TestUploadAsset(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	data := "woff2 bytes"
	url, err := e.uploads.UploadAsset(ctx, objstore.KindFont, "fancy.woff2", "font/woff2",
		int64(len(data)), strings.NewReader(data))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".woff2"))

	rc, err := e.storage.Get(ctx, url)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, string(got))
}

func TestUploadAssetPolicyViolations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uploads.UploadAsset(ctx, objstore.KindFont, "huge.woff2", "font/woff2",
		upload.MaxFontSize+1, strings.NewReader("x"))
	assert.ErrorIs(t, err, domainerrors.ErrPayloadTooLarge)

	_, err = e.uploads.UploadAsset(ctx, objstore.KindFont, "script.exe", "font/woff2",
		10, strings.NewReader("x"))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = e.uploads.UploadAsset(ctx, objstore.KindSound, "empty.mp3", "audio/mpeg",
		0, strings.NewReader(""))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUploadBookCreatesChapters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")

	data := "Para one.\n\nPara two."
	book, chapters, err := e.uploads.UploadBook(ctx, u.ID, "my-story.txt", "text/plain",
		int64(len(data)), strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "my-story", book.Title)
	require.Len(t, chapters, 1)
	assert.Contains(t, chapters[0].HTMLContent, "<p>Para one.</p>")

	// The tree is persisted.
	stored, err := e.chapters.List(ctx, u.ID, book.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, chapters[0].ID, stored[0].ID)

	content, err := e.chapters.Content(ctx, u.ID, book.ID, stored[0].ID)
	require.NoError(t, err)
	assert.Contains(t, content, "Para two.")
}

func TestUploadBookRejectsUnknownFormat(t *testing.T) {
	e := newEnv(t)

	u := e.registerUser(t, "reader@example.com")

	_, _, err := e.uploads.UploadBook(context.Background(), u.ID, "notes.pdf", "application/pdf",
		10, strings.NewReader("%PDF-1.4"))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
