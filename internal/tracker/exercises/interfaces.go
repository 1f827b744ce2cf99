package exercises

import (
	"context"

	"github.com/google/uuid"

	"github.com/exertrack/exertrack/internal/tracker/users"
)

// ExerciseStore defines the interface for exercise record storage
type ExerciseStore interface {
	CreateExercise(ctx context.Context, record *ExerciseRecord) (*ExerciseRecord, error)
	// ListExercises returns the user's records matching the filter, ordered
	// ascending by date, capped by the filter's limit.
	ListExercises(ctx context.Context, userUUID uuid.UUID, filter LogFilter) ([]*ExerciseRecord, error)
}

// ExerciseService defines the record creation and log query operations
type ExerciseService interface {
	AddExercise(ctx context.Context, user *users.User, req *CreateExerciseRequest) (*ExerciseResponse, error)
	QueryLog(ctx context.Context, user *users.User, filter LogFilter) (*LogResponse, error)
}
