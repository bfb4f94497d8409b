package domain

import (
	"errors"
	"time"
)

// User is the core user entity. Users are created on first signup attempt
// with an unseen email and are never deleted by this service.
type User struct {
	ID            string
	Email         string // always stored lowercased
	IsEnabled     bool   // disabled accounts are rejected everywhere
	EmailVerified bool   // true exactly once email ownership is proven by signup confirmation
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	return nil
}
