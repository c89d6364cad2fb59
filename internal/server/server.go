// Package server exposes the scheduling engine over a JSON REST API.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/randomizedcoder/go-cpusched/internal/metrics"
	"github.com/randomizedcoder/go-cpusched/internal/store"
)

// maxBodyBytes bounds request bodies on the simulation endpoints.
const maxBodyBytes = 1 << 20

// Server is the go-cpusched REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	startTime time.Time
	version   string
	store     store.Store        // optional; nil disables run history
	collector *metrics.Collector // optional
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithStore enables run history. Successful simulations are saved and
// the /runs endpoints serve them.
func WithStore(st store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithCollector records every simulation in c.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Server) {
		s.collector = c
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// New creates a new Server with all routes registered.
func New(logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		startTime: time.Now(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/health", handleLiveness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/algorithms", s.handleListAlgorithms)

		r.Post("/simulate", s.handleSimulate)
		r.Post("/compare", s.handleCompare)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleListRuns)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetRun)
				r.Delete("/", s.handleDeleteRun)
			})
		})
	})
}
