package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/exertrack/exertrack/internal/config"
	"github.com/exertrack/exertrack/internal/tracker"
	"github.com/exertrack/exertrack/internal/tracker/exercises"
	"github.com/exertrack/exertrack/internal/tracker/users"
)

// fakeUserService implements users.UserService backed by a map
type fakeUserService struct {
	users map[string]*users.User // keyed by username
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{users: make(map[string]*users.User)}
}

func (f *fakeUserService) CreateUser(ctx context.Context, req *users.CreateUserRequest) (*users.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, tracker.NewUserValidationError(req.Username, "username is required")
	}
	if _, ok := f.users[username]; ok {
		return nil, tracker.NewUserAlreadyExistsError(username)
	}
	user := &users.User{UUID: uuid.New(), Username: username}
	f.users[username] = user
	return user, nil
}

func (f *fakeUserService) ListUsers(ctx context.Context) ([]*users.User, error) {
	list := make([]*users.User, 0, len(f.users))
	for _, user := range f.users {
		list = append(list, user)
	}
	return list, nil
}

func (f *fakeUserService) Resolve(ctx context.Context, token string) (*users.User, error) {
	for _, user := range f.users {
		if user.UUID.String() == token || user.Username == token {
			return user, nil
		}
	}
	return nil, tracker.NewUserNotFoundError(token)
}

// fakeExerciseService records calls so tests can assert short-circuiting
type fakeExerciseService struct {
	addCalls   int
	queryCalls int
}

func (f *fakeExerciseService) AddExercise(ctx context.Context, user *users.User, req *exercises.CreateExerciseRequest) (*exercises.ExerciseResponse, error) {
	f.addCalls++
	if req.Description == "" {
		return nil, tracker.NewRecordValidationError("description", "description is required")
	}
	if req.Duration == nil {
		return nil, tracker.NewRecordValidationError("duration", "duration is required")
	}
	return &exercises.ExerciseResponse{
		ID:          user.UUID,
		Username:    user.Username,
		Description: req.Description,
		Duration:    *req.Duration,
		Date:        "Sun Jan 01 2023",
	}, nil
}

func (f *fakeExerciseService) QueryLog(ctx context.Context, user *users.User, filter exercises.LogFilter) (*exercises.LogResponse, error) {
	f.queryCalls++
	return &exercises.LogResponse{
		ID:       user.UUID,
		Username: user.Username,
		Count:    0,
		Log:      []exercises.LogEntry{},
	}, nil
}

func newTestAppState(t *testing.T) (*AppState, *fakeUserService, *fakeExerciseService) {
	t.Helper()
	config.LoadDefault()

	userService := newFakeUserService()
	exerciseService := &fakeExerciseService{}

	return &AppState{
		Logger:          zap.NewNop(),
		Config:          config.Get(),
		UserService:     userService,
		ExerciseService: exerciseService,
	}, userService, exerciseService
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCreateUserEndpoint(t *testing.T) {
	as, _, _ := newTestAppState(t)
	router := setupRouter(as)

	rr := postJSON(t, router, "/api/users", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["username"])
	assert.NotEmpty(t, resp["id"])
}

func TestCreateUserRejectsWhitespaceUsername(t *testing.T) {
	as, userService, _ := newTestAppState(t)
	router := setupRouter(as)

	rr := postJSON(t, router, "/api/users", map[string]string{"username": "   "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, userService.users, "no user should be created")
}

func TestCreateUserDuplicateReturnsConflict(t *testing.T) {
	as, _, _ := newTestAppState(t)
	router := setupRouter(as)

	rr := postJSON(t, router, "/api/users", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, router, "/api/users", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestListUsersEndpoint(t *testing.T) {
	as, _, _ := newTestAppState(t)
	router := setupRouter(as)

	postJSON(t, router, "/api/users", map[string]string{"username": "alice"})
	postJSON(t, router, "/api/users", map[string]string{"username": "bob"})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestAddExerciseUnresolvedTokenReturns404(t *testing.T) {
	as, _, exerciseService := newTestAppState(t)
	router := setupRouter(as)

	rr := postJSON(t, router, "/api/users/nobody/exercises", map[string]any{
		"description": "run",
		"duration":    30,
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Zero(t, exerciseService.addCalls, "record creation must short-circuit on NotFound")
}

func TestAddExerciseValidationReturns400(t *testing.T) {
	as, _, _ := newTestAppState(t)
	router := setupRouter(as)

	rr := postJSON(t, router, "/api/users", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, router, "/api/users/alice/exercises", map[string]any{"description": "run"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAddExerciseByUsernameReturnsRecord(t *testing.T) {
	as, _, _ := newTestAppState(t)
	router := setupRouter(as)

	rr := postJSON(t, router, "/api/users", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, router, "/api/users/alice/exercises", map[string]any{
		"description": "run",
		"duration":    30,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["username"])
	assert.Equal(t, "run", resp["description"])
	assert.Equal(t, float64(30), resp["duration"])
}

func TestGetLogsUnresolvedTokenReturns404(t *testing.T) {
	as, _, exerciseService := newTestAppState(t)
	router := setupRouter(as)

	req := httptest.NewRequest(http.MethodGet, "/api/users/nobody/logs", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Zero(t, exerciseService.queryCalls, "log query must short-circuit on NotFound")
}

func TestGetLogsReturnsAssembledView(t *testing.T) {
	as, _, _ := newTestAppState(t)
	router := setupRouter(as)

	rr := postJSON(t, router, "/api/users", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusCreated, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/users/alice/logs?from=2023-01-01&limit=5", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["username"])
	assert.Equal(t, float64(0), resp["count"])
	assert.NotNil(t, resp["log"])
}
