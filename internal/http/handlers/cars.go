package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/marcusleong/cartrade-be/internal/http/respond"
	"github.com/marcusleong/cartrade-be/internal/middleware"
	"github.com/marcusleong/cartrade-be/internal/models"
	"github.com/marcusleong/cartrade-be/internal/models/dto"
	"github.com/marcusleong/cartrade-be/internal/storage"
)

// CarHandler serves car listings and the per-user cart.
type CarHandler struct {
	store storage.CarStore
}

// NewCarHandler constructs the handler.
func NewCarHandler(store storage.CarStore) *CarHandler {
	return &CarHandler{store: store}
}

// Register attaches listing and cart routes. All of them sit behind RequireAuth.
func (h *CarHandler) Register(r chi.Router) {
	r.Get("/cars", h.handleListCars)
	r.Post("/cars", h.handleCreateCar)
	r.Delete("/cars/{id}", h.handleDeleteCar)

	r.Get("/cart", h.handleListCart)
	r.Post("/cart", h.handleAddToCart)
	r.Delete("/cart/{carID}", h.handleRemoveFromCart)
}

func (h *CarHandler) handleListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.store.ListCars(r.Context())
	if err != nil {
		slog.Error("list cars failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if cars == nil {
		cars = []models.Car{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "cars": cars})
}

func (h *CarHandler) handleCreateCar(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Make == "" || req.Model == "" {
		respond.Error(w, http.StatusBadRequest, "make and model are required")
		return
	}

	car, err := h.store.CreateCar(r.Context(), models.Car{
		Make:  req.Make,
		Model: req.Model,
		Year:  req.Year,
		Price: req.Price,
	})
	if err != nil {
		slog.Error("create car failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{"success": true, "car": car})
}

func (h *CarHandler) handleDeleteCar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.SoftDeleteCar(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "car not found")
			return
		}
		slog.Error("delete car failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *CarHandler) handleListCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	items, err := h.store.ListCartItems(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("list cart failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "items": items})
}

func (h *CarHandler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req dto.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.CarID <= 0 {
		respond.Error(w, http.StatusBadRequest, "carId is required")
		return
	}

	// Cart ownership comes from the verified token, never from the body.
	if err := h.store.AddCartItem(r.Context(), claims.UserID, req.CarID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "car not found")
			return
		}
		slog.Error("add cart item failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (h *CarHandler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	carID, ok := pathID(w, r, "carID")
	if !ok {
		return
	}

	if err := h.store.RemoveCartItem(r.Context(), claims.UserID, carID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "cart item not found")
			return
		}
		slog.Error("remove cart item failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
