package api

import (
	"bytes"
	"encoding/json/v2"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, filename, mimeType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestUploadBookFromText(t *testing.T) {
	ts := setupTestServer(t)
	cookie, csrf := ts.registerUser(t, "upload@test.com")

	body, contentType := multipartBody(t, "night-train.txt", "text/plain",
		[]byte("The night train left at nine.\n\nNobody was aboard."))

	resp := ts.api.Post("/api/upload/book", body,
		cookie, csrf, "Content-Type: "+contentType)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[UploadedBook]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "night-train", envelope.Data.Book.Title)
	require.NotEmpty(t, envelope.Data.Chapters)

	// The parsed chapters are immediately readable.
	resp = ts.api.Get("/api/books/"+envelope.Data.Book.ID+
		"/chapters/"+envelope.Data.Chapters[0].ID+"/content", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var content testEnvelope[string]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &content))
	assert.Contains(t, content.Data, "night train")
}

func TestUploadAssetIssuesServableURL(t *testing.T) {
	ts := setupTestServer(t)
	cookie, csrf := ts.registerUser(t, "asset@test.com")

	body, contentType := multipartBody(t, "rain.mp3", "audio/mpeg", []byte("ID3fake-audio-bytes"))

	resp := ts.api.Post("/api/upload/sound", body,
		cookie, csrf, "Content-Type: "+contentType)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[UploadedAsset]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, strings.HasPrefix(envelope.Data.URL, "/uploads/sounds/"))
	assert.True(t, strings.HasSuffix(envelope.Data.URL, ".mp3"))
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	ts := setupTestServer(t)
	cookie, csrf := ts.registerUser(t, "badfile@test.com")

	body, contentType := multipartBody(t, "malware.exe", "application/octet-stream", []byte("MZ"))

	resp := ts.api.Post("/api/upload/image", body,
		cookie, csrf, "Content-Type: "+contentType)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var errBody testError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errBody))
	assert.Equal(t, "VALIDATION", errBody.Error)
}

func TestUploadRequiresSession(t *testing.T) {
	ts := setupTestServer(t)
	_, csrf := ts.registerUser(t, "other@test.com")

	body, contentType := multipartBody(t, "rain.mp3", "audio/mpeg", []byte("audio"))

	resp := ts.api.Post("/api/upload/sound", body, csrf, "Content-Type: "+contentType)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
