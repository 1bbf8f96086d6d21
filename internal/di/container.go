// Package di provides dependency injection configuration for the Readwell server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/auth"
	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/di/providers"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Persistence and storage
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideStorage)

	// Auth layer
	do.Provide(injector, providers.ProvideCookieCodec)
	do.Provide(injector, providers.ProvideCSRF)
	do.Provide(injector, providers.ProvideGoogleProvider)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideChapterService)
	do.Provide(injector, providers.ProvideBookPrefsService)
	do.Provide(injector, providers.ProvideAmbientService)
	do.Provide(injector, providers.ProvideFontService)
	do.Provide(injector, providers.ProvideSettingsService)
	do.Provide(injector, providers.ProvideProgressService)
	do.Provide(injector, providers.ProvideUploadService)
	do.Provide(injector, providers.ProvideLibraryService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is running.
// Invoking each provider triggers lazy initialization in dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.CookieCodec](injector)
	_ = do.MustInvoke[*auth.CSRF](injector)
	_ = do.MustInvoke[*providers.GoogleProviderHandle](injector)

	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.ChapterService](injector)
	_ = do.MustInvoke[*service.BookPrefsService](injector)
	_ = do.MustInvoke[*service.AmbientService](injector)
	_ = do.MustInvoke[*service.FontService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)
	_ = do.MustInvoke[*service.ProgressService](injector)
	_ = do.MustInvoke[*service.UploadService](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)

	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
