// Package api serves the journal over HTTP as JSON.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"trade-journal/internal/journal"
	"trade-journal/internal/logging"
)

// Config holds server configuration.
type Config struct {
	Log            zerolog.Logger
	Journal        *journal.Service
	Port           int
	DevMode        bool
	AllowedOrigins []string
	Version        string
}

// Server is the HTTP front end of a journal Service.
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	journal *journal.Service
	port    int
	version string
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     logging.WithComponent(cfg.Log, "api"),
		journal: cfg.Journal,
		port:    cfg.Port,
		version: cfg.Version,
	}

	s.setupMiddleware(cfg.DevMode, cfg.AllowedOrigins)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(devMode bool, origins []string) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.handleListAccounts)
			r.Post("/", s.handleCreateAccount)
			r.Put("/{id}", s.handleRenameAccount)
			r.Post("/{id}/switch", s.handleSwitchAccount)
			r.Put("/{id}/balance", s.handleSetBalance)
			r.Delete("/{id}", s.handleDeleteAccount)
		})

		r.Route("/trades", func(r chi.Router) {
			r.Get("/", s.handleListTrades)
			r.Post("/", s.handleAddTrade)
			r.Get("/{id}", s.handleGetTrade)
			r.Put("/{id}", s.handleUpdateTrade)
			r.Delete("/{id}", s.handleDeleteTrade)
		})

		r.Get("/stats", s.handleStats)
		r.Get("/stats/advanced", s.handleAdvanced)
		r.Get("/stats/symbols", s.handleSymbols)
		r.Get("/charts", s.handleCharts)
		r.Get("/dashboard", s.handleDashboard)
		r.Post("/preview", s.handlePreview)

		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.json", s.handleExportBackup)
		r.Post("/import", s.handleImport)
	})
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := s.log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
		r = r.WithContext(logging.WithLogger(r.Context(), reqLog))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logging.LogRequest(reqLog, r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
