package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcusleong/cartrade-be/internal/http/respond"
	"github.com/marcusleong/cartrade-be/internal/storage"
)

// HealthHandler returns uptime, basic status, and a store connectivity probe.
type HealthHandler struct {
	startedAt time.Time
	store     storage.Pinger
}

// NewHealthHandler creates the health and connectivity endpoints.
func NewHealthHandler(startedAt time.Time, store storage.Pinger) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, store: store}
}

// Register wires the public probe routes.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/test-connection", h.handleTestConnection)
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

func (h *HealthHandler) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		slog.Error("test-connection: ping failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "database unreachable")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "solution": 2})
}
