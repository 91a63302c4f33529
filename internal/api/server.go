package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/cutsheet/internal/config"
	"github.com/ignite/cutsheet/internal/metrics"
)

// Server represents the API server
type Server struct {
	config   config.ServerConfig
	handlers *Handlers
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, reg *metrics.Registry) *Server {
	handlers := NewHandlers(cfg, reg)
	router := SetupRoutes(handlers)

	return &Server{
		config:   cfg.Server,
		handlers: handlers,
		router:   router,
	}
}

// SetTemplate installs the workbook used for xlsx-template output.
func (s *Server) SetTemplate(data []byte) {
	s.handlers.SetTemplate(data)
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       s.config.ReadTimeout(),
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      s.config.WriteTimeout(),
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.router
}
