package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User represents a registered user identity
type User struct {
	UUID      uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest represents the request to create a user
type CreateUserRequest struct {
	Username string `json:"username"`
}

// UserSchema represents the users table schema in PostgreSQL
type UserSchema struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	UUID      uuid.UUID `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	Username  string    `bun:"username,notnull,unique" json:"username"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// UserIndexes contains the index DDL for the users table
var UserIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (username)`,
}

// Helper conversion functions
func UserSchemaToUser(schema UserSchema) *User {
	return &User{
		UUID:      schema.UUID,
		Username:  schema.Username,
		CreatedAt: schema.CreatedAt,
	}
}

func UserToUserSchema(user *User) UserSchema {
	return UserSchema{
		UUID:      user.UUID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}
