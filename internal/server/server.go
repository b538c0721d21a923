package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcusleong/cartrade-be/internal/auth"
	"github.com/marcusleong/cartrade-be/internal/config"
	"github.com/marcusleong/cartrade-be/internal/http/handlers"
	"github.com/marcusleong/cartrade-be/internal/metrics"
	"github.com/marcusleong/cartrade-be/internal/middleware"
	"github.com/marcusleong/cartrade-be/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// Store is the combined persistence surface the server needs.
type Store interface {
	storage.UserStore
	storage.CarStore
	storage.Pinger
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires middleware, routes, and metrics, and returns a ready server.
//
// Route layout: /register, /log-in, /health, /test-connection, and /metrics
// are public; everything under /api passes through RequireAuth first.
func New(cfg config.Config, store Store, log *slog.Logger) *Server {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	r := chi.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Logging(log, collector))

	handlers.NewAuthHandler(store, tokens, collector).Register(r)
	handlers.NewHealthHandler(time.Now(), store).Register(r)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, collector))
		handlers.NewUserHandler(store).Register(r)
		handlers.NewCarHandler(store).Register(r)
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
