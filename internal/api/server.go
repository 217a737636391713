// Package api provides the HTTP API server and handlers for the worlds
// album.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/worldsalbum/worlds-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	worldService *service.WorldService
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
}

// Config holds server wiring options.
type Config struct {
	// ThumbRoot and ViewRoot are served as static file trees.
	ThumbRoot string
	ViewRoot  string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(worldService *service.WorldService, cfg Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	humaConfig := huma.DefaultConfig("Worlds Album API", "1.0.0")
	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		worldService: worldService,
		router:       router,
		api:          api,
		logger:       logger,
	}

	s.registerHealthRoutes()
	s.registerWorldRoutes()
	s.registerCategoryRoutes()
	s.registerAdminRoutes()

	// Renditions are plain files; serve them directly.
	if cfg.ThumbRoot != "" {
		router.Handle("/thumb/*", http.StripPrefix("/thumb/", http.FileServer(http.Dir(cfg.ThumbRoot))))
	}
	if cfg.ViewRoot != "" {
		router.Handle("/view/*", http.StripPrefix("/view/", http.FileServer(http.Dir(cfg.ViewRoot))))
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
