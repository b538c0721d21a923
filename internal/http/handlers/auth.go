package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/marcusleong/cartrade-be/internal/auth"
	"github.com/marcusleong/cartrade-be/internal/http/respond"
	"github.com/marcusleong/cartrade-be/internal/models"
	"github.com/marcusleong/cartrade-be/internal/models/dto"
	"github.com/marcusleong/cartrade-be/internal/storage"
)

// Both "email not found" and "wrong password" answer with this exact message
// so the response cannot be used to enumerate registered accounts.
const invalidCredentialsMsg = "invalid credentials"

// AuthMetrics counts successful auth events.
type AuthMetrics interface {
	RecordLogin()
	RecordRegistration()
}

// AuthHandler owns the public register and log-in endpoints.
type AuthHandler struct {
	store   storage.UserStore
	tokens  *auth.TokenManager
	metrics AuthMetrics
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager, metrics AuthMetrics) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, metrics: metrics}
}

// Register attaches the public auth routes.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/log-in", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		respond.Error(w, http.StatusBadRequest, "email, password, firstName, and lastName are required")
		return
	}

	// Early exit only. The unique index enforced by the store is the real
	// guard against two racing registrations with the same email.
	if _, err := h.store.FindByEmail(r.Context(), req.Email); err == nil {
		respond.Error(w, http.StatusConflict, "email already registered")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		slog.Error("register: email lookup failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("register: hash password failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	created, err := h.store.CreateUser(r.Context(), models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			respond.Error(w, http.StatusConflict, "email already registered")
			return
		}
		slog.Error("register: create user failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.tokens.Generate(created)
	if err != nil {
		slog.Error("register: generate token failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRegistration()
	}
	respond.JSON(w, http.StatusCreated, dto.TokenResponse{Success: true, Token: token})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.store.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The log keeps the distinct cause; the response does not.
			slog.Warn("login: unknown email", slog.String("email", req.Email))
			respond.Error(w, http.StatusUnauthorized, invalidCredentialsMsg)
			return
		}
		slog.Error("login: fetch user failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := auth.CheckPassword(req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			slog.Warn("login: password mismatch", slog.Int64("user_id", user.ID))
			respond.Error(w, http.StatusUnauthorized, invalidCredentialsMsg)
			return
		}
		slog.Error("login: check password failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		slog.Error("login: generate token failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLogin()
	}
	respond.JSON(w, http.StatusOK, dto.TokenResponse{Success: true, Token: token})
}
