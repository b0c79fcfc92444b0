package user

import "context"

type UserRepository interface {
	// GetByID retrieves a user by ID. Returns ErrUserNotFound when absent.
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email. Returns ErrUserNotFound when absent.
	GetByEmail(ctx context.Context, email string) (User, error)
}
