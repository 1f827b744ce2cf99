package exercises

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/exertrack/exertrack/internal/tracker"
)

// ExerciseStoreImpl implements the ExerciseStore interface
type ExerciseStoreImpl struct {
	db *bun.DB
}

// NewExerciseStore creates a new exercise store instance
func NewExerciseStore(db *bun.DB) *ExerciseStoreImpl {
	return &ExerciseStoreImpl{
		db: db,
	}
}

// CreateExercise persists a new exercise record
func (s *ExerciseStoreImpl) CreateExercise(ctx context.Context, record *ExerciseRecord) (*ExerciseRecord, error) {
	schema := ExerciseRecordToSchema(record)

	_, err := s.db.NewInsert().
		Model(&schema).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, tracker.NewStorageQueryError("insert", "exercises", err)
	}

	return ExerciseSchemaToRecord(schema), nil
}

// ListExercises returns a user's records with inclusive date bounds, ordered
// ascending by date. A non-positive limit means unbounded.
func (s *ExerciseStoreImpl) ListExercises(ctx context.Context, userUUID uuid.UUID, filter LogFilter) ([]*ExerciseRecord, error) {
	var schemas []ExerciseSchema

	query := s.db.NewSelect().
		Model(&schemas).
		Where("user_uuid = ?", userUUID)

	if filter.From != nil {
		query = query.Where("exercise_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("exercise_date <= ?", *filter.To)
	}

	query = query.Order("exercise_date ASC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, tracker.NewStorageQueryError("select", "exercises", err)
	}

	records := make([]*ExerciseRecord, 0, len(schemas))
	for _, schema := range schemas {
		records = append(records, ExerciseSchemaToRecord(schema))
	}
	return records, nil
}

// CreateTables creates the exercises table
func CreateTables(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*ExerciseSchema)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return tracker.NewStorageQueryError("create table", "exercises", err)
	}

	for _, indexSQL := range ExerciseIndexes {
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return tracker.NewStorageQueryError("create index", "exercises", err)
		}
	}

	return nil
}
