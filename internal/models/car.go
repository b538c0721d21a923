package models

import "time"

// Car is a marketplace listing. Deleted listings are flagged, not removed,
// so historical cart rows keep a valid reference.
type Car struct {
	ID        int64     `json:"id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Price     float64   `json:"price"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// CartItem ties a car listing to a user's cart.
type CartItem struct {
	UserID  int64     `json:"-"`
	Car     Car       `json:"car"`
	AddedAt time.Time `json:"added_at"`
}
