package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/auth"
	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/logger"
)

// ProvideCookieCodec provides the signed session cookie codec.
func ProvideCookieCodec(i do.Injector) (*auth.CookieCodec, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return auth.NewCookieCodec(cfg.Auth.SessionSecret, cfg.Auth.SessionSecure, cfg.Auth.SessionMaxAge), nil
}

// ProvideCSRF provides the session-bound CSRF token source.
func ProvideCSRF(i do.Injector) (*auth.CSRF, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return auth.NewCSRF(cfg.Auth.CSRFSecret), nil
}

// GoogleProviderHandle wraps the optional Google OAuth provider. Provider is
// nil when OAuth login is not configured.
type GoogleProviderHandle struct {
	Provider *auth.GoogleProvider
}

// ProvideGoogleProvider provides Google OAuth when configured.
func ProvideGoogleProvider(i do.Injector) (*GoogleProviderHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.GoogleEnabled() {
		log.Info("Google OAuth disabled, no client configured")
		return &GoogleProviderHandle{}, nil
	}

	provider, err := auth.NewGoogleProvider(context.Background(),
		cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	if err != nil {
		return nil, err
	}

	log.Info("Google OAuth enabled")
	return &GoogleProviderHandle{Provider: provider}, nil
}
