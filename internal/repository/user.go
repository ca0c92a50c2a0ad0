package repository

import (
	"context"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
)

// UserRepository defines user account storage.
type UserRepository interface {
	// Save creates or updates a user. Returns ErrDuplicateEntry when the
	// username or email is already taken.
	Save(ctx context.Context, user *domain.User) error

	// FindByUsername looks a user up by username. Returns ErrUserNotFound
	// when no such user exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID looks a user up by primary key.
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}
