// Package server provides HTTP server management and lifecycle handling for the hospital API.
// It includes server setup, middleware configuration, route management, and graceful shutdown.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/giygas/hospital-api/config"
	"github.com/giygas/hospital-api/interfaces"
	"github.com/giygas/hospital-api/logging"
	"github.com/giygas/hospital-api/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// rateLimiterEviction is how often idle client buckets are dropped
const rateLimiterEviction = 30 * time.Minute

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler interfaces.HTTPHandler
	limiter *RateLimiter
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler interfaces.HTTPHandler) *Server {
	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:        router,
			Addr:           net.JoinHostPort(cfg.Address, cfg.Port),
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second, // Covers a refresh and replay upstream
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: int(cfg.MaxHeaderSize),
		},
		router:  router,
		handler: handler,
		limiter: NewRateLimiter(),
		config:  cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() chi.Router {
	return s.router
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.config.Env == config.EnvProduction {
		s.router.Use(BlockDirectAccessMiddleware) // Put BEFORE RealIPMiddleware to see original RemoteAddr
	}
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(requestLogger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(s.limiter.Middleware)
}

// requestLogger returns the global logger, or slog's default before InitLogger
func requestLogger() *slog.Logger {
	if logging.DefaultLoggingService != nil && logging.DefaultLoggingService.Logger != nil {
		return logging.DefaultLoggingService.Logger
	}
	return slog.Default()
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/protocols", s.handler.ServePagedProtocols)
		r.Get("/protocols/search/{term}", s.handler.SearchProtocols)
		r.Get("/protocols/{symptom}", s.handler.FindProtocol)
		r.Get("/catalog/quality", s.handler.ServeCatalogQuality)

		r.Post("/prescriptions/auto-generate", s.handler.AutoGeneratePrescription)
		r.Post("/prescriptions", s.handler.SubmitPrescription)
	})
}

// Start starts the server
func (s *Server) Start() error {
	s.limiter.Start(rateLimiterEviction)

	logging.Info("Starting server", "addr", s.server.Addr, "env", s.config.Env.String())
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")
	s.limiter.Stop()

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
