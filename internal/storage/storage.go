package storage

import (
	"context"
	"errors"

	"github.com/marcusleong/cartrade-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail indicates a uniqueness conflict on the users email column.
var ErrDuplicateEmail = errors.New("email already registered")

// UserStore captures persistence operations needed by the auth and profile handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// CarStore captures persistence for car listings and per-user carts.
type CarStore interface {
	CreateCar(ctx context.Context, car models.Car) (models.Car, error)
	ListCars(ctx context.Context) ([]models.Car, error)
	SoftDeleteCar(ctx context.Context, id int64) error

	AddCartItem(ctx context.Context, userID, carID int64) error
	ListCartItems(ctx context.Context, userID int64) ([]models.CartItem, error)
	RemoveCartItem(ctx context.Context, userID, carID int64) error
}

// Pinger reports store connectivity for health probes.
type Pinger interface {
	Ping(ctx context.Context) error
}
