package api

import (
	"net/http"
	"time"

	"github.com/readwellapp/readwell-server/internal/auth"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
)

// oauthCookieMaxAge bounds the redirect dance; Google sends the user back
// within seconds.
const oauthCookieMaxAge = 10 * time.Minute

// The OAuth endpoints are plain chi handlers: they speak in redirects and
// short-lived cookies, not JSON envelopes, so huma registration would only
// get in the way.
func (s *Server) registerOAuthRoutes() {
	s.router.Get("/api/auth/google", s.handleGoogleBegin)
	s.router.Get("/api/auth/google/callback", s.handleGoogleCallback)
}

func (s *Server) handleGoogleBegin(w http.ResponseWriter, r *http.Request) {
	if s.google == nil {
		writeError(w, r, domainerrors.CodeUnavailable, "Google sign-in is not configured")
		return
	}

	authURL, state, pkceVerifier, err := s.google.BeginAuth()
	if err != nil {
		s.log.Error("begin google auth", "error", err)
		writeError(w, r, domainerrors.CodeInternal, "could not start Google sign-in")
		return
	}

	s.setOAuthCookie(w, auth.OAuthStateCookie, state)
	s.setOAuthCookie(w, auth.OAuthPKCECookie, pkceVerifier)
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.google == nil {
		writeError(w, r, domainerrors.CodeUnavailable, "Google sign-in is not configured")
		return
	}

	state, err := r.Cookie(auth.OAuthStateCookie)
	if err != nil || state.Value == "" || state.Value != r.URL.Query().Get("state") {
		writeError(w, r, domainerrors.CodeUnauthorized, "OAuth state mismatch")
		return
	}
	pkce, err := r.Cookie(auth.OAuthPKCECookie)
	if err != nil || pkce.Value == "" {
		writeError(w, r, domainerrors.CodeUnauthorized, "OAuth verifier missing")
		return
	}
	s.clearOAuthCookies(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, r, domainerrors.CodeUnauthorized, "OAuth code missing")
		return
	}

	claims, err := s.google.CompleteAuth(r.Context(), code, pkce.Value)
	if err != nil {
		s.log.Warn("google auth failed", "error", err)
		writeError(w, r, domainerrors.CodeUnauthorized, "Google sign-in failed")
		return
	}

	res, err := s.services.Auth.LoginWithGoogle(r.Context(), claims)
	if err != nil {
		s.log.Error("google login", "error", err)
		writeError(w, r, domainerrors.CodeInternal, "could not sign in")
		return
	}

	s.cookies.SetCookie(w, res.Session.ID)
	http.Redirect(w, r, s.cfg.App.AppURL, http.StatusFound)
}

func (s *Server) setOAuthCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/api/auth/google",
		MaxAge:   int(oauthCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Auth.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearOAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{auth.OAuthStateCookie, auth.OAuthPKCECookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/api/auth/google",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   s.cfg.Auth.SessionSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
