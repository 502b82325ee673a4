// Package web provides the HTTP server that renders the dashboard and setup
// pages.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/roasbeef/plexdash/internal/snapshot"
)

// Config holds configuration for the web server.
type Config struct {
	Addr string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Clock supplies the instant every page is rendered against.
	Clock func() time.Time
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		Clock:        time.Now,
	}
}

// Server is the HTTP server for the dashboard.
type Server struct {
	cfg      *Config
	source   snapshot.Source
	composer *Composer
	log      *slog.Logger

	mux *http.ServeMux

	// srv exists from construction so Shutdown always has a target, even
	// when it runs before Start.
	srv *http.Server
}

// NewServer creates a new web server reading from source and rendering with
// composer.
func NewServer(cfg *Config, source snapshot.Source, composer *Composer,
	log *slog.Logger) (*Server, error) {

	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		source:   source,
		composer: composer,
		log:      log.With("component", "web"),
		mux:      http.NewServeMux(),
	}

	staticHandler, err := StaticHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to create static handler: %w", err)
	}

	s.mux.HandleFunc("GET /{$}", s.handleDashboard)
	s.mux.HandleFunc("GET /setup/complete", s.handleSetupComplete)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /static/", staticHandler)

	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return withMiddleware(s.log, s.mux)
}

// Start starts the HTTP server. It blocks until the server stops, returning
// nil after a graceful shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}

	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown. A server that was shut
// down before Serve returns nil at once and closes ln.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("Starting web server", "addr", ln.Addr().String())

	err := s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Shutdown gracefully shuts down the server. Once called, Start and Serve
// return without serving.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
