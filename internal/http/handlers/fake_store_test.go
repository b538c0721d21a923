package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/marcusleong/cartrade-be/internal/models"
	"github.com/marcusleong/cartrade-be/internal/storage"
)

// fakeStore is an in-memory stand-in for the postgres store. Like the real
// schema it holds a unique constraint on email, enforced under a single lock
// so concurrent CreateUser calls behave like racing inserts.
type fakeStore struct {
	mu         sync.Mutex
	nextUserID int64
	users      map[int64]models.User
	nextCarID  int64
	cars       map[int64]models.Car
	cart       map[int64]map[int64]time.Time

	queries map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[int64]models.User),
		cars:    make(map[int64]models.Car),
		cart:    make(map[int64]map[int64]time.Time),
		queries: make(map[string]int),
	}
}

func (f *fakeStore) record(op string) {
	f.queries[op]++
}

func (f *fakeStore) queryCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[op]
}

func (f *fakeStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateUser")
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrDuplicateEmail
		}
	}
	f.nextUserID++
	user.ID = f.nextUserID
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FindByEmail")
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FindByID")
	user, ok := f.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, id int64, firstName, lastName string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateProfile")
	user, ok := f.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	user.FirstName = firstName
	user.LastName = lastName
	f.users[id] = user
	return user, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteUser")
	if _, ok := f.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.users, id)
	delete(f.cart, id)
	return nil
}

func (f *fakeStore) CreateCar(_ context.Context, car models.Car) (models.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCar")
	f.nextCarID++
	car.ID = f.nextCarID
	car.CreatedAt = time.Now()
	f.cars[car.ID] = car
	return car, nil
}

func (f *fakeStore) ListCars(_ context.Context) ([]models.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListCars")
	var cars []models.Car
	for id := int64(1); id <= f.nextCarID; id++ {
		if car, ok := f.cars[id]; ok && !car.Deleted {
			cars = append(cars, car)
		}
	}
	return cars, nil
}

func (f *fakeStore) SoftDeleteCar(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SoftDeleteCar")
	car, ok := f.cars[id]
	if !ok || car.Deleted {
		return storage.ErrNotFound
	}
	car.Deleted = true
	f.cars[id] = car
	return nil
}

func (f *fakeStore) AddCartItem(_ context.Context, userID, carID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AddCartItem")
	car, ok := f.cars[carID]
	if !ok || car.Deleted {
		return storage.ErrNotFound
	}
	if f.cart[userID] == nil {
		f.cart[userID] = make(map[int64]time.Time)
	}
	if _, exists := f.cart[userID][carID]; !exists {
		f.cart[userID][carID] = time.Now()
	}
	return nil
}

func (f *fakeStore) ListCartItems(_ context.Context, userID int64) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListCartItems")
	var items []models.CartItem
	for id := int64(1); id <= f.nextCarID; id++ {
		addedAt, ok := f.cart[userID][id]
		if !ok {
			continue
		}
		items = append(items, models.CartItem{UserID: userID, Car: f.cars[id], AddedAt: addedAt})
	}
	return items, nil
}

func (f *fakeStore) RemoveCartItem(_ context.Context, userID, carID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RemoveCartItem")
	if _, ok := f.cart[userID][carID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.cart[userID], carID)
	return nil
}

func (f *fakeStore) Ping(context.Context) error {
	return nil
}
