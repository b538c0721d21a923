package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marcusleong/cartrade-be/internal/models"
	"github.com/marcusleong/cartrade-be/internal/storage"
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.UserStore = (*Store)(nil)
	_ storage.CarStore  = (*Store)(nil)
	_ storage.Pinger    = (*Store)(nil)
)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for users, cars, and carts.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool, applies embedded migrations, and returns a ready Store.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := runMigrations(databaseURL); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool}, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks connectivity for health probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateUser inserts a new user row. The unique index on email is the
// authoritative duplicate guard; a constraint violation here maps to
// storage.ErrDuplicateEmail even when a prior existence check passed.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (email, password_hash, first_name, last_name)
	VALUES ($1, $2, $3, $4)
	RETURNING id, email, password_hash, first_name, last_name, created_at;
	`
	row := s.pool.QueryRow(ctx, query, user.Email, user.PasswordHash, user.FirstName, user.LastName)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByEmail fetches a user by exact email match.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
	SELECT id, email, password_hash, first_name, last_name, created_at
	FROM users WHERE email = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `
	SELECT id, email, password_hash, first_name, last_name, created_at
	FROM users WHERE id = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// UpdateProfile updates the mutable name fields and returns the fresh row.
func (s *Store) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) (models.User, error) {
	const query = `
	UPDATE users SET first_name = $2, last_name = $3
	WHERE id = $1
	RETURNING id, email, password_hash, first_name, last_name, created_at;
	`
	return scanUser(s.pool.QueryRow(ctx, query, id, firstName, lastName))
}

// DeleteUser removes the account row. Cart rows cascade; issued tokens stay
// valid until expiry because no session state is held server-side.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateCar inserts a listing row.
func (s *Store) CreateCar(ctx context.Context, car models.Car) (models.Car, error) {
	const query = `
	INSERT INTO cars (make, model, year, price)
	VALUES ($1, $2, $3, $4)
	RETURNING id, make, model, year, price, deleted_flag, created_at;
	`
	row := s.pool.QueryRow(ctx, query, car.Make, car.Model, car.Year, car.Price)
	return scanCar(row)
}

// ListCars returns listings that have not been soft deleted.
func (s *Store) ListCars(ctx context.Context) ([]models.Car, error) {
	const query = `
	SELECT id, make, model, year, price, deleted_flag, created_at
	FROM cars WHERE deleted_flag = FALSE
	ORDER BY id;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []models.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

// SoftDeleteCar flags a listing as deleted without removing the row.
func (s *Store) SoftDeleteCar(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE cars SET deleted_flag = TRUE WHERE id = $1 AND deleted_flag = FALSE;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AddCartItem puts a car into a user's cart. Re-adding is a no-op.
func (s *Store) AddCartItem(ctx context.Context, userID, carID int64) error {
	const exists = `SELECT 1 FROM cars WHERE id = $1 AND deleted_flag = FALSE;`
	var one int
	if err := s.pool.QueryRow(ctx, exists, carID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrNotFound
		}
		return err
	}

	const insert = `
	INSERT INTO cart_items (user_id, car_id) VALUES ($1, $2)
	ON CONFLICT (user_id, car_id) DO NOTHING;
	`
	_, err := s.pool.Exec(ctx, insert, userID, carID)
	return err
}

// ListCartItems returns the user's cart with the referenced listings.
func (s *Store) ListCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	const query = `
	SELECT ci.user_id, ci.added_at, c.id, c.make, c.model, c.year, c.price, c.deleted_flag, c.created_at
	FROM cart_items ci
	JOIN cars c ON c.id = ci.car_id
	WHERE ci.user_id = $1
	ORDER BY ci.added_at;
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(
			&item.UserID, &item.AddedAt,
			&item.Car.ID, &item.Car.Make, &item.Car.Model, &item.Car.Year,
			&item.Car.Price, &item.Car.Deleted, &item.Car.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RemoveCartItem drops one car from a user's cart.
func (s *Store) RemoveCartItem(ctx context.Context, userID, carID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND car_id = $2;`, userID, carID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanCar(row pgx.Row) (models.Car, error) {
	var car models.Car
	if err := row.Scan(&car.ID, &car.Make, &car.Model, &car.Year, &car.Price, &car.Deleted, &car.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Car{}, storage.ErrNotFound
		}
		return models.Car{}, err
	}
	return car, nil
}
