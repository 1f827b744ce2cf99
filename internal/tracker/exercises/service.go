package exercises

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/exertrack/exertrack/internal/tracker"
	"github.com/exertrack/exertrack/internal/tracker/users"
)

// ExerciseServiceImpl implements the ExerciseService interface
type ExerciseServiceImpl struct {
	store ExerciseStore
	now   func() time.Time
}

// NewExerciseService creates a new exercise service instance
func NewExerciseService(store ExerciseStore) *ExerciseServiceImpl {
	return &ExerciseServiceImpl{
		store: store,
		now:   time.Now,
	}
}

// AddExercise validates and persists a new exercise record for a resolved
// user. A missing date defaults to today, calendar precision only.
func (s *ExerciseServiceImpl) AddExercise(ctx context.Context, user *users.User, req *CreateExerciseRequest) (*ExerciseResponse, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, tracker.NewRecordValidationError("description", "description is required")
	}
	if req.Duration == nil {
		return nil, tracker.NewRecordValidationError("duration", "duration is required")
	}
	if *req.Duration <= 0 {
		return nil, tracker.NewRecordValidationError("duration", "duration must be a positive number")
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(DateLayout, req.Date)
		if err != nil {
			return nil, tracker.NewRecordValidationErrorWithCause("date", "date must be formatted as YYYY-MM-DD", err)
		}
		date = parsed
	} else {
		date = truncateToDate(s.now())
	}

	record := &ExerciseRecord{
		UUID:        uuid.New(),
		UserUUID:    user.UUID,
		Description: req.Description,
		Duration:    *req.Duration,
		Date:        date,
		CreatedAt:   s.now(),
	}

	created, err := s.store.CreateExercise(ctx, record)
	if err != nil {
		return nil, err
	}

	return &ExerciseResponse{
		ID:          user.UUID,
		Username:    user.Username,
		Description: created.Description,
		Duration:    created.Duration,
		Date:        created.DateString(),
	}, nil
}

// QueryLog assembles the filtered, bounded, date-ascending log view for a
// resolved user.
func (s *ExerciseServiceImpl) QueryLog(ctx context.Context, user *users.User, filter LogFilter) (*LogResponse, error) {
	records, err := s.store.ListExercises(ctx, user.UUID, filter)
	if err != nil {
		return nil, err
	}

	log := make([]LogEntry, 0, len(records))
	for _, record := range records {
		log = append(log, LogEntry{
			Description: record.Description,
			Duration:    record.Duration,
			Date:        record.DateString(),
		})
	}

	return &LogResponse{
		ID:       user.UUID,
		Username: user.Username,
		Count:    len(log),
		Log:      log,
	}, nil
}

// ParseLogFilter builds a LogFilter from raw query parameters. Values that do
// not parse are treated as absent rather than rejected.
func ParseLogFilter(from, to, limit string) LogFilter {
	var filter LogFilter

	if from != "" {
		if parsed, err := time.Parse(DateLayout, from); err == nil {
			filter.From = &parsed
		}
	}
	if to != "" {
		if parsed, err := time.Parse(DateLayout, to); err == nil {
			filter.To = &parsed
		}
	}
	if limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	return filter
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
