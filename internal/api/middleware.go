package api

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/readwellapp/readwell-server/internal/auth"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/ratelimit"
)

// defaultBodyLimit caps JSON request bodies. Upload routes get their own
// larger cap from the upload policies.
const defaultBodyLimit = 10 << 20

// uploadBodyLimit covers multipart book uploads plus form overhead.
const uploadBodyLimit = 51 << 20

// writeError renders the error envelope for middleware that rejects a
// request before it reaches huma.
func writeError(w http.ResponseWriter, r *http.Request, code domainerrors.Code, message string) {
	status := code.HTTPStatus()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.MarshalWrite(w, &APIError{
		status:     status,
		ErrorCode:  string(code),
		Message:    message,
		StatusCode: status,
		RequestID:  middleware.GetReqID(r.Context()),
	})
}

// securityHeaders sets baseline browser protections on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// requestLogger emits one structured line per request.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// rateLimitMiddleware rejects requests that exceed the per-IP allowance.
func rateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := requestIP(r)
			if !limiter.Allow(key) {
				log.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
				writeError(w, r, domainerrors.CodeRateLimited, "too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// csrfExempt lists state-changing paths that cannot carry a session-bound
// token: credential entry points and the OAuth dance.
var csrfExempt = map[string]bool{
	"/api/auth/login":           true,
	"/api/auth/register":        true,
	"/api/auth/forgot-password": true,
	"/api/auth/reset-password":  true,
	"/api/auth/google":          true,
	"/api/auth/google/callback": true,
}

// csrfMiddleware verifies the session-bound token on every state-changing
// request. Runs after sessionMiddleware so the session ID is in context.
func csrfMiddleware(tokens *auth.CSRF) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if csrfExempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			sessionID := getSessionID(r.Context())
			if !tokens.Verify(sessionID, r.Header.Get(auth.CSRFHeaderName)) {
				writeError(w, r, domainerrors.CodeForbidden, "missing or invalid CSRF token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bodyLimit caps request body size, with a higher cap for upload routes.
func bodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := int64(defaultBodyLimit)
		if isUploadPath(r.URL.Path) {
			limit = uploadBodyLimit
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}

// requestTimeout bounds handler time through the request context, with a
// longer allowance for upload and import routes.
func requestTimeout(normal, upload time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := normal
			if isUploadPath(r.URL.Path) {
				d = upload
			}
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isUploadPath(path string) bool {
	return strings.HasPrefix(path, "/api/upload/") ||
		path == "/api/import" || path == "/api/migrate"
}
