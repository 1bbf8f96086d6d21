package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/domain"
)

func TestExportImportOverAPI(t *testing.T) {
	ts := setupTestServer(t)
	srcCookie, srcCSRF := ts.registerUser(t, "exporter@test.com")

	book := ts.createBook(t, srcCookie, srcCSRF, "Travelogue")
	ts.createChapter(t, srcCookie, srcCSRF, book.ID, "Departure", "<p>We left at dawn.</p>")

	resp := ts.api.Get("/api/export", srcCookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var exported testEnvelope[*domain.Library]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &exported))
	require.Len(t, exported.Data.Books, 1)
	assert.Equal(t, domain.LibraryVersion, exported.Data.Version)

	// Import into another account that already has a book.
	dstCookie, dstCSRF := ts.registerUser(t, "importer@test.com")
	existing := ts.createBook(t, dstCookie, dstCSRF, "Already here")

	resp = ts.api.Post("/api/import", exported.Data, dstCookie, dstCSRF)
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/books", dstCookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[[]*domain.Book]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, existing.ID, list.Data[0].ID)
	assert.Equal(t, "Travelogue", list.Data[1].Title)
	// Imported books get fresh ids.
	assert.NotEqual(t, book.ID, list.Data[1].ID)
}

func TestMigrateOnlyAppliesToEmptyAccounts(t *testing.T) {
	ts := setupTestServer(t)
	cookie, csrf := ts.registerUser(t, "legacy@test.com")

	payload := map[string]any{
		"version": domain.LibraryVersion,
		"books": []map[string]any{{
			"book": map[string]any{"title": "From the old client"},
		}},
	}

	resp := ts.api.Post("/api/migrate", payload, cookie, csrf)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var first testEnvelope[struct {
		Migrated bool `json:"migrated"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &first))
	assert.True(t, first.Data.Migrated)

	// The shelf is no longer empty, a second migrate is a no-op.
	resp = ts.api.Post("/api/migrate", payload, cookie, csrf)
	require.Equal(t, http.StatusOK, resp.Code)

	var second testEnvelope[struct {
		Migrated bool `json:"migrated"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &second))
	assert.False(t, second.Data.Migrated)

	resp = ts.api.Get("/api/books", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[[]*domain.Book]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "From the old client", list.Data[0].Title)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	ts := setupTestServer(t)
	cookie, csrf := ts.registerUser(t, "version@test.com")

	resp := ts.api.Post("/api/import",
		map[string]any{"version": domain.LibraryVersion + 1}, cookie, csrf)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
