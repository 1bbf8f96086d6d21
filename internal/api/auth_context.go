package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/auth"
	"github.com/readwellapp/readwell-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	sessionIDKey ctxKey = "sessionID"
	clientIPKey  ctxKey = "clientIP"
)

// GetUserID returns the authenticated user ID from context.
// Returns a 401 error if the request carries no valid session.
func GetUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", huma.Error401Unauthorized("authentication required")
	}
	return userID, nil
}

// getSessionID returns the verified session ID from context, or "".
func getSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}

// clientIP returns the request's client IP stored by the middleware.
func clientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey).(string); ok {
		return ip
	}
	return ""
}

// sessionMiddleware resolves the signed session cookie and stores the user
// and session IDs in the request context. Invalid or missing cookies pass
// through unauthenticated; handlers reject via GetUserID where auth is
// required.
func sessionMiddleware(cookies *auth.CookieCodec, sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientIPKey, requestIP(r))

			cookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			sessionID, err := cookies.Decode(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			session, err := sessions.Verify(ctx, sessionID)
			if err != nil {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx = context.WithValue(ctx, userIDKey, session.UserID)
			ctx = context.WithValue(ctx, sessionIDKey, session.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestIP extracts the client IP from proxy headers, falling back to the
// connection's remote address.
func requestIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
