// Package server implements the Taskbase HTTP API.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/taskbase/internal/service"
	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// Server is the Taskbase HTTP server.
type Server struct {
	cfg     types.ServerConfig
	logger  *slog.Logger
	svc     *service.Service
	httpSrv *http.Server
	version string
}

// New creates a Server over an initialized service.
func New(cfg types.ServerConfig, svc *service.Service, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, logger: logger, svc: svc, version: version}
}

// Handler builds the route tree. Exposed separately from Start for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/", s.handleVersion)
	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1/task", func(r chi.Router) {
		r.Post("/", s.handleCreateTask)
		r.Get("/", s.handleGetTask)
		r.Patch("/", s.handleUpdateTask)
		r.Patch("/assignees", s.handleUpdateAssignees)
		r.Patch("/ack", s.handleAck)
		r.Post("/list", s.handleListTasks)
		r.Post("/delete", s.handleDeleteTask)
	})

	r.Route("/v1/notification", func(r chi.Router) {
		r.Post("/list", s.handleListNotifications)
		r.Post("/delete", s.handleDeleteNotification)
		r.Post("/batch_delete", s.handleBatchDeleteNotifications)
	})

	r.Route("/v1/group_notification", func(r chi.Router) {
		r.Post("/list", s.handleListGroupNotifications)
	})

	return r
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
	}
	s.logger.Info("server listening", slog.String("addr", addr))
	return s.httpSrv.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
