package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the browser session cookie.
const SessionCookieName = "sid"

var errBadCookie = errors.New("invalid session cookie")

// CookieCodec signs session IDs into tamper-evident cookie values.
// The cookie carries "<sessionID>.<base64 hmac>"; the session itself lives
// in the database.
type CookieCodec struct {
	secret []byte
	secure bool
	maxAge time.Duration
}

// NewCookieCodec creates a codec signing with the given secret.
func NewCookieCodec(secret string, secure bool, maxAge time.Duration) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), secure: secure, maxAge: maxAge}
}

// Encode returns the signed cookie value for a session ID.
func (c *CookieCodec) Encode(sessionID string) string {
	return sessionID + "." + base64.RawURLEncoding.EncodeToString(c.sign(sessionID))
}

// Decode verifies a cookie value and returns the embedded session ID.
func (c *CookieCodec) Decode(value string) (string, error) {
	idx := strings.LastIndexByte(value, '.')
	if idx <= 0 {
		return "", errBadCookie
	}
	sessionID := value[:idx]
	sig, err := base64.RawURLEncoding.DecodeString(value[idx+1:])
	if err != nil {
		return "", errBadCookie
	}
	if !hmac.Equal(sig, c.sign(sessionID)) {
		return "", errBadCookie
	}
	return sessionID, nil
}

// SetCookie writes the signed session cookie to the response.
func (c *CookieCodec) SetCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    c.Encode(sessionID),
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// NewCookieHeader returns a Set-Cookie header value for the signed session
// cookie, for handlers that set headers rather than writing to a
// ResponseWriter directly.
func (c *CookieCodec) NewCookieHeader(sessionID string) string {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    c.Encode(sessionID),
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	return cookie.String()
}

// ClearCookieHeader returns a Set-Cookie header value that removes the
// session cookie.
func (c *CookieCodec) ClearCookieHeader() string {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	return cookie.String()
}

func (c *CookieCodec) sign(sessionID string) []byte {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(sessionID))
	return h.Sum(nil)
}
