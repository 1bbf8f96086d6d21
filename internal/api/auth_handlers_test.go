package api

import (
	"encoding/json/v2"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/domain"
)

func TestRegisterLoginLogout(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/auth/register", map[string]any{
		"email":       "flow@test.com",
		"password":    "correct-horse-battery",
		"displayName": "Flow",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NotEmpty(t, resp.Header().Get("Set-Cookie"))

	var registered testEnvelope[*domain.User]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))
	assert.Equal(t, "flow@test.com", registered.Data.Email)

	// Fresh login issues a new session.
	resp = ts.api.Post("/api/auth/login", map[string]any{
		"email":    "flow@test.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	setCookie := resp.Header().Get("Set-Cookie")
	require.NotEmpty(t, setCookie)
	cookie := "Cookie: " + strings.SplitN(setCookie, ";", 2)[0]

	resp = ts.api.Get("/api/auth/me", cookie)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Logout needs a CSRF token like any other state change.
	csrfResp := ts.api.Get("/api/auth/csrf", cookie)
	require.Equal(t, http.StatusOK, csrfResp.Code)
	var token testEnvelope[struct {
		CSRFToken string `json:"csrfToken"`
	}]
	require.NoError(t, json.Unmarshal(csrfResp.Body.Bytes(), &token))

	resp = ts.api.Post("/api/auth/logout", cookie, "X-CSRF-Token: "+token.Data.CSRFToken)
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Contains(t, resp.Header().Get("Set-Cookie"), "Max-Age=0")

	// The session is gone server side.
	resp = ts.api.Get("/api/auth/me", cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "secure@test.com")

	resp := ts.api.Post("/api/auth/login", map[string]any{
		"email":    "secure@test.com",
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	var body testError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_CREDENTIALS", body.Error)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "taken@test.com")

	resp := ts.api.Post("/api/auth/register", map[string]any{
		"email":    "taken@test.com",
		"password": "correct-horse-battery",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestUpdateProfile(t *testing.T) {
	ts := setupTestServer(t)
	cookie, csrf := ts.registerUser(t, "profile@test.com")

	resp := ts.api.Patch("/api/auth/me", map[string]any{
		"displayName": "New Name",
		"bio":         "Reads at night.",
	}, cookie, csrf)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[*domain.User]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "New Name", envelope.Data.DisplayName)
	assert.Equal(t, "Reads at night.", envelope.Data.Bio)
}

func TestForgotPasswordNeverRevealsAccounts(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "real@test.com")

	for _, email := range []string{"real@test.com", "ghost@test.com"} {
		resp := ts.api.Post("/api/auth/forgot-password", map[string]any{"email": email})
		assert.Equal(t, http.StatusNoContent, resp.Code)
	}
}

func TestCSRFTokenRequiresSession(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/auth/csrf")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
