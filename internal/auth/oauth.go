package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

// State and PKCE verifier cookies used during the OAuth redirect dance.
const (
	OAuthStateCookie = "oauth_state"
	OAuthPKCECookie  = "oauth_pkce"
)

// GoogleClaims are the identity claims we consume from a Google ID token.
type GoogleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleProvider performs the Google sign-in code flow with PKCE.
type GoogleProvider struct {
	config   oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleProvider discovers Google's OIDC endpoints and builds the
// oauth2 configuration. Call once at startup; discovery hits the network.
func NewGoogleProvider(ctx context.Context, clientID, clientSecret, redirectURL string) (*GoogleProvider, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &GoogleProvider{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// BeginAuth generates a state token and PKCE pair and returns the Google
// authorization URL to redirect the browser to.
func (g *GoogleProvider) BeginAuth() (authURL, state, pkceVerifier string, err error) {
	state, err = randomToken(16)
	if err != nil {
		return "", "", "", err
	}
	pkceVerifier, challenge, err := generatePKCE()
	if err != nil {
		return "", "", "", err
	}

	authURL = g.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
	return authURL, state, pkceVerifier, nil
}

// CompleteAuth exchanges the authorization code, verifies the ID token, and
// returns the Google identity claims.
func (g *GoogleProvider) CompleteAuth(ctx context.Context, code, pkceVerifier string) (*GoogleClaims, error) {
	token, err := g.config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", pkceVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("token response missing id_token")
	}

	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	var claims GoogleClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	if claims.Email == "" {
		return nil, errors.New("id token has no email claim")
	}
	return &claims, nil
}

// randomToken returns a base64-url-encoded random token of n bytes.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// generatePKCE creates a code_verifier and its S256 code_challenge.
func generatePKCE() (verifier string, challenge string, err error) {
	v, err := randomToken(32)
	if err != nil {
		return "", "", err
	}
	sum := sha256.Sum256([]byte(v))
	return v, base64.RawURLEncoding.EncodeToString(sum[:]), nil
}
