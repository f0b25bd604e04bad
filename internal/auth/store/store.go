// Package store persists user accounts for the auth service.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/auth/models"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("store: user not found")
	// ErrDuplicateEmail is returned when a create collides on the unique
	// email constraint.
	ErrDuplicateEmail = errors.New("store: email already in use")
)

// UserStore is the persistence boundary for user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
