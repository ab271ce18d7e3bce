// Package api serves the daemon's read-only admin endpoints: health, metrics
// and the most recently compiled route and redirect tables.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/sitegraph/internal/eventstore"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/output"
	"git.home.luguber.info/inful/sitegraph/internal/pipeline"
)

// Source exposes the daemon's build state to the handlers.
type Source interface {
	// LastReport returns the report of the most recent build, or nil.
	LastReport() *pipeline.BuildReport
	// LastTables returns the tables of the most recent successful build,
	// or nil when no build has succeeded yet.
	LastTables() *output.Result
	// Trigger requests a build. It returns false when one is already
	// queued.
	Trigger(reason string) bool
}

// Server represents the admin API server.
type Server struct {
	Addr    string
	router  *chi.Mux
	server  *http.Server
	source  Source
	history eventstore.Store
	metrics http.Handler
	errors  *errors.HTTPErrorAdapter
	started time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

// WithHistory serves build history from store at /builds.
func WithHistory(store eventstore.Store) Option { return func(s *Server) { s.history = store } }

// NewServer creates a new admin server.
func NewServer(addr string, src Source, opts ...Option) *Server {
	s := &Server{
		Addr:    addr,
		router:  chi.NewRouter(),
		source:  src,
		errors:  errors.NewHTTPErrorAdapter(nil),
		started: time.Now(),
	}
	for _, o := range opts {
		o(s)
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/routes", s.handleRoutes)
	s.router.Get("/redirects", s.handleRedirects)
	s.router.Get("/builds", s.handleListBuilds)
	s.router.Get("/builds/last", s.handleLastBuild)
	s.router.Post("/builds", s.handleTriggerBuild)

	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics)
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the admin server. It blocks until the server stops.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Response represents a standard API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success writes a success response.
func (s *Server) Success(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

// Error writes a classified error using the shared HTTP error adapter.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	s.errors.WriteErrorResponse(w, r, err)
}
