package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned when a candidate password does not match the stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword derives a salted bcrypt hash from the plaintext. Each call
// embeds a fresh salt, so hashing the same password twice yields different outputs.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a candidate password against a stored hash.
// bcrypt performs the comparison in constant time. A plain mismatch returns
// ErrPasswordMismatch; anything else is a malformed hash.
func CheckPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}
