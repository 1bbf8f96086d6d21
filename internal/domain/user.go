package domain

import (
	"strings"
	"time"
)

// User is an account holder. PasswordHash is empty for OAuth-only accounts,
// which log in through the Google callback and never touch the hash column.
type User struct {
	Entity
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	DisplayName  string `json:"displayName,omitempty"`
	Username     string `json:"username,omitempty"`
	Bio          string `json:"bio,omitempty"`
	AvatarURL    string `json:"avatarUrl,omitempty"`

	// Password reset state. The token itself is never stored, only its hash.
	ResetTokenHash    string     `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
}

// EmailLower returns the case-folded email used for uniqueness checks.
func (u *User) EmailLower() string {
	return strings.ToLower(strings.TrimSpace(u.Email))
}

// HasPassword reports whether this account can use password login.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Session is a server-side login session. The client holds only the opaque
// signed session id in the `sid` cookie; everything else lives here.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
