package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exertrack/exertrack/internal/tracker"
)

// fakeUserStore is an in-memory UserStore for service tests
type fakeUserStore struct {
	byUUID     map[uuid.UUID]*User
	byUsername map[string]*User
	failWith   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byUUID:     make(map[uuid.UUID]*User),
		byUsername: make(map[string]*User),
	}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, username string) (*User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if _, ok := f.byUsername[username]; ok {
		return nil, tracker.NewUserAlreadyExistsError(username)
	}
	user := &User{UUID: uuid.New(), Username: username}
	f.byUUID[user.UUID] = user
	f.byUsername[user.Username] = user
	return user, nil
}

func (f *fakeUserStore) GetUserByUUID(ctx context.Context, id uuid.UUID) (*User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.byUUID[id], nil
}

func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.byUsername[username], nil
}

func (f *fakeUserStore) ListUsers(ctx context.Context) ([]*User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	result := make([]*User, 0, len(f.byUUID))
	for _, user := range f.byUUID {
		result = append(result, user)
	}
	return result, nil
}

func TestCreateUserTrimsUsername(t *testing.T) {
	store := newFakeUserStore()
	service := NewUserService(store)

	user, err := service.CreateUser(context.Background(), &CreateUserRequest{Username: "  alice  "})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestCreateUserRejectsEmptyUsername(t *testing.T) {
	store := newFakeUserStore()
	service := NewUserService(store)

	tests := []struct {
		name     string
		username string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"tabs and newlines", "\t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateUser(context.Background(), &CreateUserRequest{Username: tt.username})
			require.Error(t, err)
			assert.True(t, tracker.IsValidation(err))
			assert.Empty(t, store.byUsername, "no user should be created")
		})
	}
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	store := newFakeUserStore()
	service := NewUserService(store)

	_, err := service.CreateUser(context.Background(), &CreateUserRequest{Username: "alice"})
	require.NoError(t, err)

	_, err = service.CreateUser(context.Background(), &CreateUserRequest{Username: "alice"})
	require.Error(t, err)
	assert.True(t, tracker.IsAlreadyExists(err))
}

func TestResolveByHandleAndUsernameYieldSameIdentity(t *testing.T) {
	store := newFakeUserStore()
	service := NewUserService(store)

	created, err := service.CreateUser(context.Background(), &CreateUserRequest{Username: "alice"})
	require.NoError(t, err)

	byHandle, err := service.Resolve(context.Background(), created.UUID.String())
	require.NoError(t, err)

	byUsername, err := service.Resolve(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, byHandle.UUID, byUsername.UUID)
	assert.Equal(t, byHandle.Username, byUsername.Username)
}

func TestResolveMalformedHandleFallsBackToUsername(t *testing.T) {
	store := newFakeUserStore()
	service := NewUserService(store)

	// "not-a-uuid" cannot be a handle, so the resolver must try it as a
	// username without reporting a failure
	created, err := service.CreateUser(context.Background(), &CreateUserRequest{Username: "not-a-uuid"})
	require.NoError(t, err)

	resolved, err := service.Resolve(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, created.UUID, resolved.UUID)
}

func TestResolveValidHandleOfMissingUserFallsBackToUsername(t *testing.T) {
	store := newFakeUserStore()
	service := NewUserService(store)

	// A username that happens to be shaped like a UUID still resolves after
	// the handle lookup misses
	handleShaped := uuid.New().String()
	created, err := service.CreateUser(context.Background(), &CreateUserRequest{Username: handleShaped})
	require.NoError(t, err)

	resolved, err := service.Resolve(context.Background(), handleShaped)
	require.NoError(t, err)
	assert.Equal(t, created.UUID, resolved.UUID)
}

func TestResolveUnknownTokenReturnsNotFound(t *testing.T) {
	store := newFakeUserStore()
	service := NewUserService(store)

	_, err := service.Resolve(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, tracker.IsNotFound(err))
}

func TestResolvePropagatesStorageFailure(t *testing.T) {
	store := newFakeUserStore()
	store.failWith = tracker.NewStorageQueryError("select", "users", assert.AnError)
	service := NewUserService(store)

	_, err := service.Resolve(context.Background(), "alice")
	require.Error(t, err)
	assert.False(t, tracker.IsNotFound(err))
	assert.False(t, tracker.IsValidation(err))
}

func TestListUsersReturnsAll(t *testing.T) {
	store := newFakeUserStore()
	service := NewUserService(store)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := service.CreateUser(context.Background(), &CreateUserRequest{Username: name})
		require.NoError(t, err)
	}

	list, err := service.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
