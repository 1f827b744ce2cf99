package users

import (
	"context"

	"github.com/google/uuid"
)

// UserStore defines the interface for user storage operations. The point
// lookups return (nil, nil) on a negative match so callers can distinguish
// "no such user" from a storage failure.
type UserStore interface {
	CreateUser(ctx context.Context, username string) (*User, error)
	GetUserByUUID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

// UserService defines the interface for the user directory and identifier
// resolution operations
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	// Resolve matches a path token against user handles first and usernames
	// second, returning a not-found error when neither matches.
	Resolve(ctx context.Context, token string) (*User, error)
}
