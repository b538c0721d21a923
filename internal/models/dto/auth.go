package dto

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type AddCartItemRequest struct {
	CarID int64 `json:"carId"`
}

type CreateCarRequest struct {
	Make  string  `json:"make"`
	Model string  `json:"model"`
	Year  int     `json:"year"`
	Price float64 `json:"price"`
}
