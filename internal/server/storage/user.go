package storage

import (
	"context"

	"github.com/rizquez/usersvc/internal/models"
)

// UserStore defines the interface for user record persistence.
// Implementations assign the id on Create and enforce email uniqueness.
type UserStore interface {
	// Create inserts a new user and fills user.ID.
	// Returns ErrEmailTaken if the email is already registered.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by id.
	// Returns ErrUserNotFound if no such user exists.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail retrieves a user by email.
	// Returns ErrUserNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns all users ordered by id.
	List(ctx context.Context) ([]*models.User, error)

	// Update rewrites the stored record for user.ID.
	// Returns ErrUserNotFound if no such user exists and ErrEmailTaken
	// if the new email belongs to another user.
	Update(ctx context.Context, user *models.User) error

	// Delete removes a user by id.
	// Returns ErrUserNotFound if no such user exists.
	Delete(ctx context.Context, id int64) error
}
