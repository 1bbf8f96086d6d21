package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/auth/register",
		Summary:     "Register a new account",
		Description: "Creates an account, seeds the builtin reading fonts and settings, and starts a session.",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in with email and password",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodPost,
		Path:          "/api/auth/logout",
		Summary:       "End the current session",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/api/auth/me",
		Summary:     "Current account",
		Tags:        []string{"Authentication"},
	}, s.handleMe)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-me",
		Method:      http.MethodPatch,
		Path:        "/api/auth/me",
		Summary:     "Update profile",
		Tags:        []string{"Authentication"},
	}, s.handleUpdateMe)

	huma.Register(s.api, huma.Operation{
		OperationID: "csrf-token",
		Method:      http.MethodGet,
		Path:        "/api/auth/csrf",
		Summary:     "CSRF token for the current session",
		Tags:        []string{"Authentication"},
	}, s.handleCSRFToken)

	huma.Register(s.api, huma.Operation{
		OperationID:   "forgot-password",
		Method:        http.MethodPost,
		Path:          "/api/auth/forgot-password",
		Summary:       "Request a password reset",
		Description:   "Always returns 204 so responses do not reveal whether an account exists.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleForgotPassword)

	huma.Register(s.api, huma.Operation{
		OperationID:   "reset-password",
		Method:        http.MethodPost,
		Path:          "/api/auth/reset-password",
		Summary:       "Reset password with a token",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleResetPassword)
}

// === DTOs ===

// RegisterBody is the request body for account registration.
type RegisterBody struct {
	Email       string `json:"email" doc:"Email address"`
	Password    string `json:"password" doc:"Password (min 8 characters)"`
	DisplayName string `json:"displayName,omitempty" doc:"Display name"`
}

// RegisterInput wraps the register request.
type RegisterInput struct {
	Body RegisterBody
}

// LoginBody is the request body for password login.
type LoginBody struct {
	Email    string `json:"email" doc:"Email address"`
	Password string `json:"password" doc:"Password"`
}

// LoginInput wraps the login request.
type LoginInput struct {
	Body LoginBody
}

// SessionOutput returns the account and sets the session cookie.
type SessionOutput struct {
	SetCookie string `header:"Set-Cookie"`
	Body      *domain.User
}

// LogoutOutput clears the session cookie.
type LogoutOutput struct {
	SetCookie string `header:"Set-Cookie"`
}

// UserOutput wraps an account response.
type UserOutput struct {
	Body *domain.User
}

// UpdateMeBody is the profile patch body. Omitted fields are unchanged.
type UpdateMeBody struct {
	DisplayName *string `json:"displayName,omitempty" doc:"Display name"`
	Username    *string `json:"username,omitempty" doc:"Unique public handle"`
	Bio         *string `json:"bio,omitempty" doc:"Short bio"`
	AvatarURL   *string `json:"avatarUrl,omitempty" doc:"Avatar image URL"`
}

// UpdateMeInput wraps the profile patch.
type UpdateMeInput struct {
	Body UpdateMeBody
}

// CSRFTokenOutput carries the session-bound CSRF token.
type CSRFTokenOutput struct {
	Body struct {
		CSRFToken string `json:"csrfToken" doc:"Echo in the X-CSRF-Token header"`
	}
}

// ForgotPasswordInput wraps the reset request.
type ForgotPasswordInput struct {
	Body struct {
		Email string `json:"email" doc:"Account email address"`
	}
}

// ResetPasswordInput wraps the reset confirmation.
type ResetPasswordInput struct {
	Body struct {
		Token    string `json:"token" doc:"Reset token from the email link"`
		Password string `json:"password" doc:"New password (min 8 characters)"`
	}
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*SessionOutput, error) {
	if err := s.checkAuthRate(clientIP(ctx)); err != nil {
		return nil, err
	}

	res, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Email:       input.Body.Email,
		Password:    input.Body.Password,
		DisplayName: input.Body.DisplayName,
	})
	if err != nil {
		return nil, err
	}

	return &SessionOutput{
		SetCookie: s.cookies.NewCookieHeader(res.Session.ID),
		Body:      res.User,
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*SessionOutput, error) {
	if err := s.checkAuthRate(clientIP(ctx)); err != nil {
		return nil, err
	}

	res, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &SessionOutput{
		SetCookie: s.cookies.NewCookieHeader(res.Session.ID),
		Body:      res.User,
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
	if sessionID := getSessionID(ctx); sessionID != "" {
		if err := s.services.Auth.Logout(ctx, sessionID); err != nil {
			return nil, err
		}
	}
	return &LogoutOutput{SetCookie: s.cookies.ClearCookieHeader()}, nil
}

func (s *Server) handleMe(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.services.Auth.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleUpdateMe(ctx context.Context, input *UpdateMeInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.services.Auth.UpdateProfile(ctx, userID, service.UpdateProfileRequest{
		DisplayName: input.Body.DisplayName,
		Username:    input.Body.Username,
		Bio:         input.Body.Bio,
		AvatarURL:   input.Body.AvatarURL,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleCSRFToken(ctx context.Context, _ *struct{}) (*CSRFTokenOutput, error) {
	sessionID := getSessionID(ctx)
	if sessionID == "" {
		return nil, huma.Error401Unauthorized("authentication required")
	}
	out := &CSRFTokenOutput{}
	out.Body.CSRFToken = s.csrf.Token(sessionID)
	return out, nil
}

func (s *Server) handleForgotPassword(ctx context.Context, input *ForgotPasswordInput) (*struct{}, error) {
	if err := s.checkAuthRate(clientIP(ctx)); err != nil {
		return nil, err
	}

	token, err := s.services.Auth.ForgotPassword(ctx, input.Body.Email)
	if err != nil {
		return nil, err
	}
	if token != "" {
		// Mail delivery is not wired up; surface the token in dev logs so
		// the flow stays testable end to end.
		s.log.Debug("password reset token issued", "email", input.Body.Email, "token", token)
	}
	return nil, nil
}

func (s *Server) handleResetPassword(ctx context.Context, input *ResetPasswordInput) (*struct{}, error) {
	if err := s.checkAuthRate(clientIP(ctx)); err != nil {
		return nil, err
	}
	if err := s.services.Auth.ResetPassword(ctx, input.Body.Token, input.Body.Password); err != nil {
		return nil, err
	}
	return nil, nil
}
