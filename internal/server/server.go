// Package server exposes the loop over HTTP: the control page, start and
// stop endpoints, status, health and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/aatumaykin/curlloop/internal/loop"
)

// Controller is the part of the loop scheduler the handlers drive.
type Controller interface {
	Start(command string, minutes float64) (loop.Result, error)
	Stop() (loop.Result, error)
	Status() loop.Status
}

// Config configures the control server.
type Config struct {
	Addr string
	// Metrics serves GET /metrics when non-nil.
	Metrics http.Handler
}

// Server provides the HTTP control surface.
type Server struct {
	addr       string
	controller Controller
	logger     *logger.Logger
	server     *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server. It does not listen until Start is called.
func New(cfg Config, controller Controller, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}

	s := &Server{
		addr:       cfg.Addr,
		controller: controller,
		logger:     log,
	}

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(cfg.Metrics),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.StdLogger().Handler(), slog.LevelWarn),
	}

	return s
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start binds the listen address and serves in a goroutine.
// Bind errors are returned; later serve errors are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("control server listening", logger.Field{Key: "addr", Value: ln.Addr().String()})

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("control server error", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Debug("control server shutting down")
	return s.server.Shutdown(ctx)
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// URL returns the address as an http URL suitable for a browser.
// Wildcard hosts are replaced with localhost.
func (s *Server) URL() string {
	host, port, err := net.SplitHostPort(s.Addr())
	if err != nil {
		return "http://" + s.Addr()
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
