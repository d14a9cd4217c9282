// Package api provides the HTTP API server and handlers for ReadTrail.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/readtrailapp/readtrail-server/internal/config"
	"github.com/readtrailapp/readtrail-server/internal/http/response"
	"github.com/readtrailapp/readtrail-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService      *service.AuthService
	sessionService   *service.SessionService
	catalogService   *service.CatalogService
	libraryService   *service.LibraryService
	dashboardService *service.DashboardService
	router           *chi.Mux
	logger           *slog.Logger
	corsOrigins      []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg *config.Config,
	authService *service.AuthService,
	sessionService *service.SessionService,
	catalogService *service.CatalogService,
	libraryService *service.LibraryService,
	dashboardService *service.DashboardService,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:      authService,
		sessionService:   sessionService,
		catalogService:   catalogService,
		libraryService:   libraryService,
		dashboardService: dashboardService,
		router:           chi.NewRouter(),
		logger:           logger,
		corsOrigins:      cfg.Server.CORSOrigins,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
		})

		// Current user profile.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
			r.Patch("/me", s.handleUpdateProfile)
			r.Put("/me/password", s.handleChangePassword)
			r.Get("/me/sessions", s.handleListSessions)
		})

		// Catalog search.
		r.Route("/books", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/search", s.handleSearchCatalog)
			r.Get("/{id}", s.handleGetCatalogVolume)
		})

		// Personal library.
		r.Route("/library", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleAddBook)
			r.Get("/", s.handleListLibrary)
			r.Get("/quotes/search", s.handleSearchQuotes)
			r.Get("/{id}", s.handleGetEntry)
			r.Patch("/{id}", s.handleUpdateEntry)
			r.Delete("/{id}", s.handleRemoveEntry)
			r.Put("/{id}/progress", s.handleUpdateProgress)
			r.Post("/{id}/notes", s.handleAddNote)
			r.Patch("/{id}/notes/{noteID}", s.handleUpdateNote)
			r.Delete("/{id}/notes/{noteID}", s.handleRemoveNote)
			r.Post("/{id}/quotes", s.handleAddQuote)
			r.Post("/{id}/sessions", s.handleRecordSession)
		})

		// Dashboard.
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleGetDashboard)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
