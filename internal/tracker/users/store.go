package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/exertrack/exertrack/internal/tracker"
)

// UserStoreImpl implements the UserStore interface
type UserStoreImpl struct {
	db *bun.DB
}

// NewUserStore creates a new user store instance
func NewUserStore(db *bun.DB) *UserStoreImpl {
	return &UserStoreImpl{
		db: db,
	}
}

// CreateUser creates a new user. The unique constraint on username is the
// hard backstop behind the service-level pre-check.
func (s *UserStoreImpl) CreateUser(ctx context.Context, username string) (*User, error) {
	user := &User{
		UUID:      uuid.New(),
		Username:  username,
		CreatedAt: time.Now(),
	}

	userSchema := UserToUserSchema(user)

	_, err := s.db.NewInsert().
		Model(&userSchema).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
			strings.Contains(err.Error(), "users_username_key") {
			return nil, tracker.NewUserAlreadyExistsError(username)
		}
		return nil, tracker.NewStorageQueryError("insert", "users", err)
	}

	*user = *UserSchemaToUser(userSchema)
	return user, nil
}

// GetUserByUUID looks up a user by primary handle
func (s *UserStoreImpl) GetUserByUUID(ctx context.Context, id uuid.UUID) (*User, error) {
	var userSchema UserSchema
	err := s.db.NewSelect().
		Model(&userSchema).
		Where("uuid = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, tracker.NewStorageQueryError("select", "users", err)
	}

	return UserSchemaToUser(userSchema), nil
}

// GetUserByUsername looks up a user by exact username
func (s *UserStoreImpl) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var userSchema UserSchema
	err := s.db.NewSelect().
		Model(&userSchema).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, tracker.NewStorageQueryError("select", "users", err)
	}

	return UserSchemaToUser(userSchema), nil
}

// ListUsers returns all registered users
func (s *UserStoreImpl) ListUsers(ctx context.Context) ([]*User, error) {
	var schemas []UserSchema
	err := s.db.NewSelect().
		Model(&schemas).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, tracker.NewStorageQueryError("select", "users", err)
	}

	result := make([]*User, 0, len(schemas))
	for _, schema := range schemas {
		result = append(result, UserSchemaToUser(schema))
	}
	return result, nil
}

// CreateTables creates the users table
func CreateTables(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*UserSchema)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return tracker.NewStorageQueryError("create table", "users", err)
	}

	for _, indexSQL := range UserIndexes {
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return tracker.NewStorageQueryError("create index", "users", err)
		}
	}

	return nil
}
