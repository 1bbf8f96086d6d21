// Package api provides the HTTP API server and handlers for the Readwell
// application.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/readwellapp/readwell-server/internal/auth"
	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/objstore"
	"github.com/readwellapp/readwell-server/internal/ratelimit"
	"github.com/readwellapp/readwell-server/internal/service"
	"github.com/readwellapp/readwell-server/internal/store"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth     *service.AuthService
	Sessions *service.SessionService
	Books    *service.BookService
	Chapters *service.ChapterService
	Prefs    *service.BookPrefsService
	Ambients *service.AmbientService
	Fonts    *service.FontService
	Settings *service.SettingsService
	Progress *service.ProgressService
	Uploads  *service.UploadService
	Library  *service.LibraryService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	cfg         *config.Config
	store       store.Store
	services    *Services
	storage     objstore.Storage
	cookies     *auth.CookieCodec
	csrf        *auth.CSRF
	google      *auth.GoogleProvider
	router      *chi.Mux
	api         huma.API
	log         *logger.Logger
	authLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates the HTTP server with all middleware and routes
// configured. google may be nil when OAuth login is not configured.
func NewServer(
	cfg *config.Config,
	st store.Store,
	services *Services,
	storage objstore.Storage,
	cookies *auth.CookieCodec,
	csrfTokens *auth.CSRF,
	google *auth.GoogleProvider,
	log *logger.Logger,
) *Server {
	s := &Server{
		cfg:         cfg,
		store:       st,
		services:    services,
		storage:     storage,
		cookies:     cookies,
		csrf:        csrfTokens,
		google:      google,
		router:      chi.NewRouter(),
		log:         log,
		authLimiter: ratelimit.PerMinute(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthPerMinute),
	}

	s.setupMiddleware()
	s.setupAPI()
	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)

	if origin := s.cfg.App.CORSOrigin; origin != "" {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{origin},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", auth.CSRFHeaderName},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	s.router.Use(requestLogger(s.log))
	s.router.Use(rateLimitMiddleware(
		ratelimit.PerMinute(s.cfg.RateLimit.PerMinute, s.cfg.RateLimit.Burst), s.log))
	s.router.Use(bodyLimit)
	s.router.Use(requestTimeout(s.cfg.Server.RequestTimeout, s.cfg.Server.UploadTimeout))
	s.router.Use(sessionMiddleware(s.cookies, s.services.Sessions))
	s.router.Use(csrfMiddleware(s.csrf))
}

func (s *Server) setupAPI() {
	humaConfig := huma.DefaultConfig("Readwell API", "1.0.0")
	humaConfig.DocsPath = "/api/docs"
	humaConfig.OpenAPIPath = "/api/docs/spec"
	humaConfig.Info.Description = "Backend for the Readwell web e-book reader."
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerOAuthRoutes()
	s.registerBookRoutes()
	s.registerChapterRoutes()
	s.registerPrefsRoutes()
	s.registerAmbientRoutes()
	s.registerFontRoutes()
	s.registerSettingsRoutes()
	s.registerProgressRoutes()
	s.registerUploadRoutes()
	s.registerLibraryRoutes()
	s.registerDiscoverRoutes()

	// With the filesystem backend the API serves the stored blobs itself.
	// S3 deployments serve objects from the bucket's public URL instead.
	if !s.cfg.S3Enabled() {
		fs := http.FileServer(http.Dir(s.cfg.Storage.UploadDir))
		s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fs))
	}
}

// checkAuthRate applies the stricter credential-endpoint rate limit.
func (s *Server) checkAuthRate(ip string) error {
	if !s.authLimiter.Allow(ip) {
		s.log.Warn("auth rate limit exceeded", "ip", ip)
		return huma.Error429TooManyRequests("too many attempts, try again later")
	}
	return nil
}
