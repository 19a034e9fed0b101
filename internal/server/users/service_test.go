package users

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tokenkeeper/internal/clock"
	"github.com/iudanet/tokenkeeper/internal/crypto"
	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/server/storage"
	"github.com/iudanet/tokenkeeper/internal/status"
)

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[string]*models.User // username -> User
	createError error
	getError    error
	nextID      int64
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Username] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

var now = time.Date(2025, 2, 2, 2, 2, 2, 0, time.UTC)

func newTestService() (*Service, *mockUserStorage) {
	store := newMockUserStorage()
	svc := NewService(store,
		WithClock(clock.NewFixed(now)),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return svc, store
}

var adminCaller = &models.User{ID: 100, Username: "root", Role: models.RoleAdmin}

func TestService_CreateUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		caller   *models.User
		name     string
		username string
		password string
		role     models.Role
		want     status.Status
	}{
		{name: "admin creates regular user", caller: adminCaller, username: "alice", password: "password1", role: models.RoleRegular, want: status.Success},
		{name: "admin creates admin", caller: adminCaller, username: "boss", password: "password1", role: models.RoleAdmin, want: status.Success},
		{name: "regular caller denied", caller: &models.User{ID: 5}, username: "eve", password: "password1", want: status.UserNoOperationPerm},
		{name: "nil caller denied", caller: nil, username: "eve", password: "password1", want: status.UserNoOperationPerm},
		{name: "invalid username", caller: adminCaller, username: "a b", password: "password1", want: status.RequestParamsNotValid},
		{name: "short password", caller: adminCaller, username: "carol", password: "short", want: status.RequestParamsNotValid},
		{name: "unknown role", caller: adminCaller, username: "dave", password: "password1", role: models.Role(9), want: status.RequestParamsNotValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService()

			user, err := svc.CreateUser(ctx, tt.caller, tt.username, tt.password, tt.role)
			assert.Equal(t, tt.want, status.FromError(err))
			if !tt.want.OK() {
				assert.Nil(t, user)
				assert.Empty(t, store.users)
				return
			}

			require.NotNil(t, user)
			assert.NotZero(t, user.ID)
			assert.Equal(t, tt.role, user.Role)
			assert.True(t, user.CreatedAt.Equal(now))
			assert.NotEqual(t, tt.password, user.PasswordHash)
			assert.NoError(t, crypto.VerifyPassword(tt.password, user.PasswordHash))
		})
	}
}

func TestService_CreateUser_Duplicate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, adminCaller, "alice", "password1", models.RoleRegular)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, adminCaller, "alice", "password2", models.RoleRegular)
	assert.Equal(t, status.UserNameExist, status.FromError(err))
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestService_CreateUser_StorageFailure(t *testing.T) {
	svc, store := newTestService()
	store.createError = errors.New("db down")

	_, err := svc.CreateUser(context.Background(), adminCaller, "alice", "password1", models.RoleRegular)
	assert.Equal(t, status.StorageUnavailable, status.FromError(err))
}

func TestService_Authenticate(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, adminCaller, "alice", "password1", models.RoleRegular)
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	for _, tc := range []struct{ name, user, pass string }{
		{"wrong password", "alice", "password2"},
		{"unknown user", "bob", "password1"},
		{"empty password", "alice", ""},
		{"empty username", "", "password1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tc.user, tc.pass)
			assert.Equal(t, status.UserNamePasswdError, status.FromError(err))
		})
	}

	t.Run("corrupted hash", func(t *testing.T) {
		store.users["alice"].PasswordHash = "garbage"
		_, err := svc.Authenticate(ctx, "alice", "password1")
		assert.Equal(t, status.UserNamePasswdError, status.FromError(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		store.getError = errors.New("db down")
		_, err := svc.Authenticate(ctx, "alice", "password1")
		assert.Equal(t, status.StorageUnavailable, status.FromError(err))
	})
}

func TestService_GetUser(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, adminCaller, "alice", "password1", models.RoleRegular)
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.GetUser(ctx, created.ID+1)
	assert.Equal(t, status.ResourceNotFound, status.FromError(err))

	store.getError = errors.New("db down")
	_, err = svc.GetUser(ctx, created.ID)
	assert.Equal(t, status.StorageUnavailable, status.FromError(err))
}

func TestService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing admin", func(t *testing.T) {
		svc, store := newTestService()

		require.NoError(t, svc.EnsureAdmin(ctx, "admin", "admin-password"))
		require.Contains(t, store.users, "admin")
		assert.True(t, store.users["admin"].IsAdmin())

		_, err := svc.Authenticate(ctx, "admin", "admin-password")
		assert.NoError(t, err)
	})

	t.Run("keeps existing account", func(t *testing.T) {
		svc, store := newTestService()
		require.NoError(t, svc.EnsureAdmin(ctx, "admin", "first-password"))
		hash := store.users["admin"].PasswordHash

		require.NoError(t, svc.EnsureAdmin(ctx, "admin", "second-password"))
		assert.Equal(t, hash, store.users["admin"].PasswordHash)
		assert.Len(t, store.users, 1)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		svc, _ := newTestService()
		err := svc.EnsureAdmin(ctx, "admin", "123")
		assert.Equal(t, status.RequestParamsNotValid, status.FromError(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, store := newTestService()
		store.getError = errors.New("db down")
		err := svc.EnsureAdmin(ctx, "admin", "admin-password")
		assert.Equal(t, status.StorageUnavailable, status.FromError(err))
	})
}
