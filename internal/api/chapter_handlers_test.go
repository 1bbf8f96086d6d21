package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/domain"
)

func (ts *testServer) createChapter(t *testing.T, cookie, csrf, bookID, title, html string) *domain.Chapter {
	t.Helper()

	resp := ts.api.Post("/api/books/"+bookID+"/chapters",
		map[string]any{"title": title, "htmlContent": html}, cookie, csrf)
	require.Equal(t, http.StatusCreated, resp.Code, "create chapter failed: %s", resp.Body.String())

	var envelope testEnvelope[*domain.Chapter]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestChapterRoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	cookie, csrf := ts.registerUser(t, "chapters@test.com")
	book := ts.createBook(t, cookie, csrf, "Novel")

	chapter := ts.createChapter(t, cookie, csrf, book.ID, "One",
		`<p>Hello</p><script>alert(1)</script>`)
	assert.Equal(t, 0, chapter.Position)

	// Scripts are stripped on write.
	resp := ts.api.Get("/api/books/"+book.ID+"/chapters/"+chapter.ID+"/content", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var content testEnvelope[string]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &content))
	assert.Contains(t, content.Data, "<p>Hello</p>")
	assert.NotContains(t, content.Data, "<script>")

	// Update replaces the content.
	resp = ts.api.Patch("/api/books/"+book.ID+"/chapters/"+chapter.ID,
		map[string]any{"htmlContent": "<p>Rewritten</p>"}, cookie, csrf)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/books/"+book.ID+"/chapters/"+chapter.ID+"/content", cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &content))
	assert.Contains(t, content.Data, "Rewritten")
	assert.NotContains(t, content.Data, "Hello")
}

func TestChapterReorder(t *testing.T) {
	ts := setupTestServer(t)
	cookie, csrf := ts.registerUser(t, "chapter-order@test.com")
	book := ts.createBook(t, cookie, csrf, "Novel")

	one := ts.createChapter(t, cookie, csrf, book.ID, "One", "")
	two := ts.createChapter(t, cookie, csrf, book.ID, "Two", "")
	three := ts.createChapter(t, cookie, csrf, book.ID, "Three", "")

	resp := ts.api.Patch("/api/books/"+book.ID+"/chapters/reorder",
		map[string]any{"order": []string{three.ID, one.ID, two.ID}}, cookie, csrf)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[[]*domain.Chapter]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Data, 3)
	assert.Equal(t, "Three", list.Data[0].Title)
	assert.Equal(t, "One", list.Data[1].Title)
	assert.Equal(t, "Two", list.Data[2].Title)
}

func TestChapterNotReachableThroughAnotherBook(t *testing.T) {
	ts := setupTestServer(t)
	cookie, csrf := ts.registerUser(t, "chapter-iso@test.com")

	novel := ts.createBook(t, cookie, csrf, "Novel")
	other := ts.createBook(t, cookie, csrf, "Other")
	chapter := ts.createChapter(t, cookie, csrf, novel.ID, "One", "")

	resp := ts.api.Get("/api/books/"+other.ID+"/chapters/"+chapter.ID, cookie)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestProgressRoundTripOverAPI(t *testing.T) {
	ts := setupTestServer(t)
	cookie, csrf := ts.registerUser(t, "progress@test.com")
	book := ts.createBook(t, cookie, csrf, "Novel")

	// Nothing saved yet.
	resp := ts.api.Get("/api/books/"+book.ID+"/progress", cookie)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Put("/api/books/"+book.ID+"/progress", map[string]any{
		"page":        12,
		"fontSize":    18,
		"theme":       "dark",
		"soundVolume": 0.5,
	}, cookie, csrf)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/books/"+book.ID+"/progress", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[*domain.ReadingProgress]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 12, envelope.Data.Page)
	assert.Equal(t, "dark", envelope.Data.Theme)
}

func TestAppearanceThemePatchOverAPI(t *testing.T) {
	ts := setupTestServer(t)
	cookie, csrf := ts.registerUser(t, "appearance@test.com")
	book := ts.createBook(t, cookie, csrf, "Novel")

	resp := ts.api.Patch("/api/books/"+book.ID+"/appearance/dark",
		map[string]any{"bgPage": "#101418"}, cookie, csrf)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[*domain.BookAppearance]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "#101418", envelope.Data.Dark.BgPage)

	// The light theme keeps its defaults.
	fresh := domain.NewBookAppearance(book.ID)
	assert.Equal(t, fresh.Light.BgPage, envelope.Data.Light.BgPage)
}
