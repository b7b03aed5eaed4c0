// Package api provides the HTTP API server and handlers for CineVault.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
	"github.com/cinevault/cinevault-server/internal/ratelimit"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Options tunes the HTTP surface.
type Options struct {
	// Production hides storage fault messages and detail fields.
	Production bool
	// CORSOrigins lists allowed origins; empty allows all.
	CORSOrigins []string
	// PosterMissingStatus is the status for a poster that was never uploaded (404 or 500).
	PosterMissingStatus int
	// AuthRatePerMinute and AuthRateBurst limit /user requests per client IP.
	AuthRatePerMinute int
	AuthRateBurst     int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services        *Services
	backends        Backends
	opts            Options
	router          chi.Router
	api             huma.API
	authRateLimiter *ratelimit.KeyedRateLimiter
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, backends Backends, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PosterMissingStatus == 0 {
		opts.PosterMissingStatus = http.StatusInternalServerError
	}
	if opts.AuthRatePerMinute <= 0 {
		opts.AuthRatePerMinute = 20
	}
	if opts.AuthRateBurst <= 0 {
		opts.AuthRateBurst = 5
	}

	router := chi.NewRouter()

	s := &Server{
		services:        services,
		backends:        backends,
		opts:            opts,
		router:          router,
		authRateLimiter: ratelimit.PerMinute(opts.AuthRatePerMinute, opts.AuthRateBurst),
		logger:          logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("CineVault API", Version)
	// Bodies keep their documented shape; no $schema links.
	humaConfig.CreateHooks = nil
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:   "http",
			Scheme: "bearer",
		},
	}
	s.api = humachi.New(router, humaConfig)
	registerErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerMovieRoutes()
	s.registerPosterRoutes()

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, domainerrors.NotFound(MsgRouteNotFound))
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(s.opts.CORSOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           int((5 * time.Minute).Seconds()),
	}))
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
