package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/readwellapp/readwell-server/internal/auth"
	"github.com/readwellapp/readwell-server/internal/domain"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/store"
)

// resetTokenTTL is how long a password reset token stays valid.
const resetTokenTTL = time.Hour

// AuthService handles registration, login and account management.
// Session lifecycle is delegated to SessionService.
type AuthService struct {
	store    store.Store
	sessions *SessionService
	log      *logger.Logger
}

// NewAuthService creates an authentication service.
func NewAuthService(st store.Store, sessions *SessionService, log *logger.Logger) *AuthService {
	return &AuthService{store: st, sessions: sessions, log: log}
}

// RegisterRequest contains new account data.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"displayName" validate:"max=80"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest contains the editable profile fields. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,max=80"`
	Username    *string `json:"username,omitempty" validate:"omitempty,min=3,max=32,alphanum"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatarUrl,omitempty" validate:"omitempty,max=2048,safeurl"`
}

// AuthResult is a logged-in user plus their fresh session.
type AuthResult struct {
	User    *domain.User
	Session *domain.Session
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
	}
	user.ID, err = id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("an account with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID)
	return &AuthResult{User: user, Session: session}, nil
}

// Login verifies credentials and starts a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if domainerrors.Is(err, store.ErrNotFound) {
		// Burn a verification anyway so a missing account costs the same
		// as a wrong password.
		_, _ = auth.VerifyPassword(dummyHash, req.Password)
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, domainerrors.InvalidCredentials("this account uses Google sign-in")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Session: session}, nil
}

// LoginWithGoogle finds or creates the account for a verified Google
// identity and starts a session.
func (s *AuthService) LoginWithGoogle(ctx context.Context, claims *auth.GoogleClaims) (*AuthResult, error) {
	user, err := s.store.GetUserByEmail(ctx, claims.Email)
	if domainerrors.Is(err, store.ErrNotFound) {
		user = &domain.User{
			Email:       claims.Email,
			DisplayName: claims.Name,
			AvatarURL:   claims.Picture,
		}
		user.ID, err = id.Generate("user")
		if err != nil {
			return nil, fmt.Errorf("generate user ID: %w", err)
		}
		user.InitTimestamps()
		if err := s.store.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		s.log.Info("user registered via google", "user_id", user.ID)
	} else if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Session: session}, nil
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Me returns the account of the current user.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return user, nil
}

// UpdateProfile applies a partial profile update.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("username is already taken")
		}
		return nil, notFoundOr(err, "user")
	}
	return user, nil
}

// ForgotPassword begins a password reset. The returned token would be sent
// to the user out of band; callers must not expose it in the response, and
// unknown emails return no error to avoid account enumeration.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if err := validate.Var(email, "required,email"); err != nil {
		return "", err
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if domainerrors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	token, err := id.Token()
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	expires := time.Now().UTC().Add(resetTokenTTL)
	user.ResetTokenHash = hashResetToken(token)
	user.ResetTokenExpires = &expires
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	s.log.Info("password reset requested", "user_id", user.ID)
	return token, nil
}

// ResetPassword completes a password reset. All existing sessions are ended.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validate.Var(newPassword, "required,min=8,max=1024"); err != nil {
		return err
	}

	user, err := s.store.GetUserByResetToken(ctx, hashResetToken(token))
	if domainerrors.Is(err, store.ErrNotFound) {
		return domainerrors.Unauthorized("reset token is invalid or expired")
	}
	if err != nil {
		return fmt.Errorf("get user by reset token: %w", err)
	}
	if user.ResetTokenExpires == nil || time.Now().After(*user.ResetTokenExpires) {
		return domainerrors.Unauthorized("reset token is invalid or expired")
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.ResetTokenHash = ""
	user.ResetTokenExpires = nil
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.sessions.DeleteAll(ctx, user.ID); err != nil {
		return fmt.Errorf("end sessions: %w", err)
	}

	s.log.Info("password reset completed", "user_id", user.ID)
	return nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// dummyHash keeps failed-login timing flat when the account does not exist.
var dummyHash = func() string {
	h, err := auth.HashPassword("not-a-real-password")
	if err != nil {
		panic(err)
	}
	return h
}()
