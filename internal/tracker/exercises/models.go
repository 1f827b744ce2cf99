package exercises

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DateLayout is the wire format for calendar dates in requests and query
// parameters.
const DateLayout = "2006-01-02"

// dateDisplayLayout renders stored dates as a human-readable string,
// e.g. "Mon Jan 02 2006".
const dateDisplayLayout = "Mon Jan 02 2006"

// ExerciseRecord represents a single logged exercise. Date carries calendar
// precision only; CreatedAt is the insertion timestamp.
type ExerciseRecord struct {
	UUID        uuid.UUID `json:"id"`
	UserUUID    uuid.UUID `json:"user_id"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// DateString renders the record's calendar date for responses
func (r *ExerciseRecord) DateString() string {
	return r.Date.Format(dateDisplayLayout)
}

// CreateExerciseRequest represents the request body for logging an exercise.
// Duration is a pointer so that a missing field can be told apart from zero.
type CreateExerciseRequest struct {
	Description string `json:"description"`
	Duration    *int   `json:"duration"`
	Date        string `json:"date,omitempty"`
}

// ExerciseResponse is the created record augmented with the resolved user's
// identity fields
type ExerciseResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	Date        string    `json:"date"`
}

// LogEntry is one record in a user's exercise log
type LogEntry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogResponse is the assembled log view for one user. Count is the number of
// entries actually returned after bounding, not the total matching set.
type LogResponse struct {
	ID       uuid.UUID  `json:"id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

// LogFilter is the parsed query filter. Nil bounds are open; Limit <= 0 means
// unbounded.
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// ExerciseSchema represents the exercises table schema in PostgreSQL
type ExerciseSchema struct {
	bun.BaseModel `bun:"table:exercises,alias:e"`

	UUID        uuid.UUID `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	UserUUID    uuid.UUID `bun:"user_uuid,notnull,type:uuid" json:"user_uuid"`
	Description string    `bun:"description,notnull" json:"description"`
	Duration    int       `bun:"duration,notnull" json:"duration"`
	Date        time.Time `bun:"exercise_date,notnull,type:date" json:"exercise_date"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// ExerciseIndexes contains the index DDL for the exercises table
var ExerciseIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_exercises_user_uuid ON exercises (user_uuid)`,
	`CREATE INDEX IF NOT EXISTS idx_exercises_user_date ON exercises (user_uuid, exercise_date)`,
}

// Helper conversion functions
func ExerciseSchemaToRecord(schema ExerciseSchema) *ExerciseRecord {
	return &ExerciseRecord{
		UUID:        schema.UUID,
		UserUUID:    schema.UserUUID,
		Description: schema.Description,
		Duration:    schema.Duration,
		Date:        schema.Date,
		CreatedAt:   schema.CreatedAt,
	}
}

func ExerciseRecordToSchema(record *ExerciseRecord) ExerciseSchema {
	return ExerciseSchema{
		UUID:        record.UUID,
		UserUUID:    record.UserUUID,
		Description: record.Description,
		Duration:    record.Duration,
		Date:        record.Date,
		CreatedAt:   record.CreatedAt,
	}
}
