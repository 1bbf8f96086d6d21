package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/api"
	"github.com/readwellapp/readwell-server/internal/auth"
	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/objstore"
	"github.com/readwellapp/readwell-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[objstore.Storage](i)
	cookies := do.MustInvoke[*auth.CookieCodec](i)
	csrf := do.MustInvoke[*auth.CSRF](i)
	googleHandle := do.MustInvoke[*GoogleProviderHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:     do.MustInvoke[*service.AuthService](i),
		Sessions: do.MustInvoke[*service.SessionService](i),
		Books:    do.MustInvoke[*service.BookService](i),
		Chapters: do.MustInvoke[*service.ChapterService](i),
		Prefs:    do.MustInvoke[*service.BookPrefsService](i),
		Ambients: do.MustInvoke[*service.AmbientService](i),
		Fonts:    do.MustInvoke[*service.FontService](i),
		Settings: do.MustInvoke[*service.SettingsService](i),
		Progress: do.MustInvoke[*service.ProgressService](i),
		Uploads:  do.MustInvoke[*service.UploadService](i),
		Library:  do.MustInvoke[*service.LibraryService](i),
	}

	handler := api.NewServer(cfg, storeHandle.Store, services, storage, cookies, csrf, googleHandle.Provider, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
