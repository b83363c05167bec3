package repository

import (
	"context"
	"errors"

	"isrs-auth/internal/domain"
)

var (
	// ErrUserNotFound is returned when a lookup or reference targets a user that does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when an insert violates the unique email constraint.
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository defines persistence operations for User records.
type UserRepository interface {
	Insert(ctx context.Context, name, email, passwordHash string) (int64, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns the hash-free projection of the user.
	FindByID(ctx context.Context, id int64) (*domain.Profile, error)
}
