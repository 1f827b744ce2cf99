package users

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/exertrack/exertrack/internal/tracker"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	store UserStore
}

// NewUserService creates a new user service instance
func NewUserService(store UserStore) *UserServiceImpl {
	return &UserServiceImpl{
		store: store,
	}
}

// CreateUser creates a new user. The username is trimmed before validation.
// The existence pre-check is advisory; the store's unique constraint closes
// the remaining check-then-create window.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, tracker.NewUserValidationError(req.Username, "username is required")
	}

	existing, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, tracker.NewUserAlreadyExistsError(username)
	}

	return s.store.CreateUser(ctx, username)
}

// ListUsers returns all registered users
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*User, error) {
	return s.store.ListUsers(ctx)
}

// Resolve matches a path token to a user identity. The token is tried as a
// primary handle first; a token that does not parse as a UUID is a negative
// handle lookup, not a failure, and falls through to exact username lookup.
func (s *UserServiceImpl) Resolve(ctx context.Context, token string) (*User, error) {
	if id, err := uuid.Parse(token); err == nil {
		user, err := s.store.GetUserByUUID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}

	user, err := s.store.GetUserByUsername(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, tracker.NewUserNotFoundError(token)
	}
	return user, nil
}
