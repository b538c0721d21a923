package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/marcusleong/cartrade-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCarRouter(store *fakeStore) chi.Router {
	r := chi.NewRouter()
	NewCarHandler(store).Register(r)
	return r
}

func seedCar(t *testing.T, store *fakeStore) models.Car {
	t.Helper()
	car, err := store.CreateCar(t.Context(), models.Car{Make: "Toyota", Model: "Corolla", Year: 2020, Price: 15000})
	require.NoError(t, err)
	return car
}

func TestCreateAndListCars(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	user := seedUser(t, store)
	router := newCarRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodPost, "/cars",
		map[string]any{"make": "Honda", "model": "Civic", "year": 2021, "price": 18000.0}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodGet, "/cars", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool         `json:"success"`
		Cars    []models.Car `json:"cars"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Cars, 1)
	assert.Equal(t, "Honda", resp.Cars[0].Make)
}

func TestCreateCar_MissingFields(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	user := seedUser(t, store)
	router := newCarRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodPost, "/cars",
		map[string]any{"make": "Honda"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSoftDeleteCar_HidesListing(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	user := seedUser(t, store)
	car := seedCar(t, store)
	router := newCarRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodDelete, fmt.Sprintf("/cars/%d", car.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodGet, "/cars", nil))
	var resp struct {
		Cars []models.Car `json:"cars"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Cars, "soft-deleted cars must disappear from listings")

	// Deleting again is a 404, the row is only flagged.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodDelete, fmt.Sprintf("/cars/%d", car.ID), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCar_InvalidID(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	user := seedUser(t, store)
	router := newCarRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodDelete, "/cars/not-a-number", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartRoundTrip(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	user := seedUser(t, store)
	car := seedCar(t, store)
	router := newCarRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodPost, "/cart",
		map[string]any{"carId": car.ID}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodGet, "/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool              `json:"success"`
		Items   []models.CartItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, car.ID, resp.Items[0].Car.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodDelete, fmt.Sprintf("/cart/%d", car.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodGet, "/cart", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestAddToCart_UnknownCar(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	user := seedUser(t, store)
	router := newCarRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, user, http.MethodPost, "/cart",
		map[string]any{"carId": 999}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartIsPerIdentity(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	alice := seedUser(t, store)
	bob, err := store.CreateUser(t.Context(), models.User{Email: "bob@b.com", PasswordHash: "x", FirstName: "Bob", LastName: "C"})
	require.NoError(t, err)
	car := seedCar(t, store)
	router := newCarRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, alice, http.MethodPost, "/cart", map[string]any{"carId": car.ID}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, bob, http.MethodGet, "/cart", nil))
	var resp struct {
		Items []models.CartItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items, "one user's cart must not leak into another's")
}
