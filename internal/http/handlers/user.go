package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/marcusleong/cartrade-be/internal/http/respond"
	"github.com/marcusleong/cartrade-be/internal/middleware"
	"github.com/marcusleong/cartrade-be/internal/models"
	"github.com/marcusleong/cartrade-be/internal/models/dto"
	"github.com/marcusleong/cartrade-be/internal/storage"
)

// UserHandler serves the authenticated profile endpoints.
type UserHandler struct {
	store storage.UserStore
}

// NewUserHandler constructs the handler.
func NewUserHandler(store storage.UserStore) *UserHandler {
	return &UserHandler{store: store}
}

// Register attaches the profile routes. All of them sit behind RequireAuth.
func (h *UserHandler) Register(r chi.Router) {
	r.Get("/user", h.handleGet)
	r.Put("/user", h.handleUpdate)
	r.Delete("/user", h.handleDelete)
}

type userResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	user, err := h.store.FindByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The token outlived the account. Stateless tokens cannot be
			// revoked, so this is the first place the deletion surfaces.
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Error("get user failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		respond.Error(w, http.StatusBadRequest, "firstName and lastName are required")
		return
	}

	user, err := h.store.UpdateProfile(r.Context(), claims.UserID, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Error("update profile failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	if err := h.store.DeleteUser(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Error("delete user failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"success": true})
}
