package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/logger"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.auth.Register(ctx, RegisterRequest{
		Email:       "reader@example.com",
		Password:    "correct horse battery",
		DisplayName: "Reader",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.User.ID)
	assert.NotEmpty(t, res.Session.ID)
	assert.NotEmpty(t, res.User.PasswordHash)

	// The fresh session verifies.
	session, err := e.sessions.Verify(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, session.UserID)

	login, err := e.auth.Login(ctx, LoginRequest{
		Email:    "Reader@Example.COM",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.registerUser(t, "reader@example.com")

	_, err := e.auth.Register(ctx, RegisterRequest{
		Email:    "READER@example.com",
		Password: "another password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.Register(context.Background(), RegisterRequest{
		Email:    "reader@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestLoginWrongCredentials(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.registerUser(t, "reader@example.com")

	_, err := e.auth.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = e.auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestLogoutEndsSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.auth.Register(ctx, RegisterRequest{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, e.auth.Logout(ctx, res.Session.ID))

	_, err = e.sessions.Verify(ctx, res.Session.ID)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestVerifyExpiredSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")

	short := NewSessionService(e.store, -time.Minute, logger.Discard())
	session, err := short.Create(ctx, u.ID)
	require.NoError(t, err)

	_, err = e.sessions.Verify(ctx, session.ID)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.registerUser(t, "reader@example.com")

	updated, err := e.auth.UpdateProfile(ctx, u.ID, UpdateProfileRequest{
		DisplayName: strPtr("Renamed"),
		Username:    strPtr("bookworm"),
		Bio:         strPtr("Reads a lot."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.DisplayName)
	assert.Equal(t, "bookworm", updated.Username)

	// Usernames are unique across accounts.
	other := e.registerUser(t, "other@example.com")
	_, err = e.auth.UpdateProfile(ctx, other.ID, UpdateProfileRequest{
		Username: strPtr("bookworm"),
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestUpdateProfileRejectsScriptAvatar(t *testing.T) {
	e := newEnv(t)

	u := e.registerUser(t, "reader@example.com")
	_, err := e.auth.UpdateProfile(context.Background(), u.ID, UpdateProfileRequest{
		AvatarURL: strPtr("javascript:alert(1)"),
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestPasswordResetFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.auth.Register(ctx, RegisterRequest{
		Email:    "reader@example.com",
		Password: "original password",
	})
	require.NoError(t, err)

	// Unknown emails do not leak account existence.
	token, err := e.auth.ForgotPassword(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)

	token, err = e.auth.ForgotPassword(ctx, "reader@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, e.auth.ResetPassword(ctx, token, "brand new password"))

	// Old password no longer works, new one does, sessions are gone.
	_, err = e.auth.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "original password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = e.auth.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "brand new password"})
	assert.NoError(t, err)

	_, err = e.sessions.Verify(ctx, res.Session.ID)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	// The token is single use.
	err = e.auth.ResetPassword(ctx, token, "yet another password")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestResetPasswordBadToken(t *testing.T) {
	e := newEnv(t)
	err := e.auth.ResetPassword(context.Background(), "not-a-real-token", "brand new password")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
