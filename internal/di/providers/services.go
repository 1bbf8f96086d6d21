package providers

import (
	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/objstore"
	"github.com/readwellapp/readwell-server/internal/service"
)

// ProvideSessionService provides the session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewSessionService(storeHandle.Store, cfg.Auth.SessionMaxAge, log), nil
}

// ProvideAuthService provides the auth service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewAuthService(storeHandle.Store, sessions, log), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewBookService(storeHandle.Store, log), nil
}

// ProvideChapterService provides the chapter service.
func ProvideChapterService(i do.Injector) (*service.ChapterService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	books := do.MustInvoke[*service.BookService](i)
	storage := do.MustInvoke[objstore.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewChapterService(storeHandle.Store, books, storage, log), nil
}

// ProvideBookPrefsService provides the per-book preferences service.
func ProvideBookPrefsService(i do.Injector) (*service.BookPrefsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	books := do.MustInvoke[*service.BookService](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewBookPrefsService(storeHandle.Store, books, log), nil
}

// ProvideAmbientService provides the ambient sound service.
func ProvideAmbientService(i do.Injector) (*service.AmbientService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	books := do.MustInvoke[*service.BookService](i)
	storage := do.MustInvoke[objstore.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewAmbientService(storeHandle.Store, books, storage, log), nil
}

// ProvideFontService provides the font service.
func ProvideFontService(i do.Injector) (*service.FontService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	books := do.MustInvoke[*service.BookService](i)
	storage := do.MustInvoke[objstore.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewFontService(storeHandle.Store, books, storage, log), nil
}

// ProvideSettingsService provides the global settings service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewSettingsService(storeHandle.Store, log), nil
}

// ProvideProgressService provides the reading progress service.
func ProvideProgressService(i do.Injector) (*service.ProgressService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	books := do.MustInvoke[*service.BookService](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewProgressService(storeHandle.Store, books, log), nil
}

// ProvideUploadService provides the upload service.
func ProvideUploadService(i do.Injector) (*service.UploadService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	books := do.MustInvoke[*service.BookService](i)
	storage := do.MustInvoke[objstore.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewUploadService(storeHandle.Store, books, storage, log), nil
}

// ProvideLibraryService provides the export, import, and migration service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewLibraryService(storeHandle.Store, log), nil
}
