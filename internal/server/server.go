// Package server implements the HTTP server for the application.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sevigo/wikigen/internal/config"
	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/orchestrate"
	"github.com/sevigo/wikigen/internal/qa"
	"github.com/sevigo/wikigen/internal/storage"
)

// Server wraps an HTTP server with graceful shutdown capabilities.
type Server struct {
	ctx    context.Context
	server *http.Server
	logger *slog.Logger
}

// Deps bundles the services the HTTP surface exposes: generation dispatch
// and progress, the promoted wiki pages, notes, and grounded Q&A. wikigen has
// no webhook intake of its own — requests are queued through dispatcher by
// an operator or a scheduled job, not by an inbound GitHub event.
type Deps struct {
	Dispatcher       core.JobDispatcher
	Store            storage.Store
	Pages            storage.PageStore
	Notes            storage.NotesStore
	QA               *qa.Engine
	Progress         *orchestrate.ProgressBroker
	WikiPath         string
	EmbedderProvider string
	EmbedderModel    string
}

// NewServer creates a new HTTP server with the given configuration and dependencies.
func NewServer(ctx context.Context, cfg *config.Config, deps Deps, logger *slog.Logger) *Server {
	router := NewRouter(deps, logger)

	return &Server{
		ctx: ctx,
		server: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout: 10 * time.Second,
			// WriteTimeout stays 0: the SSE progress stream holds its
			// response open for the duration of a generation run.
			WriteTimeout: 0,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// Start starts the HTTP server and blocks until shutdown or error.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "address", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server with a 30-second timeout.
func (s *Server) Stop() error {
	s.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}
