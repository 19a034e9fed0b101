// Package storagetest holds behaviour checks shared by every storage.Storage backend.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/server/storage"
)

// Factory returns a fresh, empty storage. Cleanup is the caller's job (t.Cleanup).
type Factory func(t *testing.T) storage.Storage

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// Run executes the shared storage checks against backends produced by newStorage.
func Run(t *testing.T, newStorage Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStorage(t)) })
	t.Run("insert and get token", func(t *testing.T) { testInsertGet(t, newStorage(t)) })
	t.Run("update token", func(t *testing.T) { testUpdate(t, newStorage(t)) })
	t.Run("delete token", func(t *testing.T) { testDelete(t, newStorage(t)) })
	t.Run("page scoping", func(t *testing.T) { testPageScoping(t, newStorage(t)) })
	t.Run("page search", func(t *testing.T) { testPageSearch(t, newStorage(t)) })
	t.Run("page ordering and paging", func(t *testing.T) { testPaging(t, newStorage(t)) })
}

// CreateUser inserts a user with a throwaway password hash.
func CreateUser(t *testing.T, s storage.UserStorage, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    base,
		UpdatedAt:    base,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

// InsertToken inserts a token owned by userID with the given update time.
func InsertToken(t *testing.T, s storage.TokenStorage, userID int64, value string, updated time.Time) *models.AccessToken {
	t.Helper()

	token := &models.AccessToken{
		UserID:     userID,
		Token:      value,
		ExpireTime: updated.Add(24 * time.Hour),
		CreateTime: updated,
		UpdateTime: updated,
	}
	rows, err := s.InsertToken(context.Background(), token)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)
	require.NotZero(t, token.ID)
	return token
}

func testUsers(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	alice := CreateUser(t, s, "alice", models.RoleRegular)
	admin := CreateUser(t, s, "root", models.RoleAdmin)
	assert.NotEqual(t, alice.ID, admin.ID)

	dup := &models.User{Username: "alice", PasswordHash: "x", CreatedAt: base, UpdatedAt: base}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), storage.ErrUserAlreadyExists)

	got, err := s.GetUserByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, "hash", got.PasswordHash)

	got, err = s.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, models.RoleRegular, got.Role)
	assert.True(t, got.CreatedAt.Equal(base))

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	_, err = s.GetUserByID(ctx, admin.ID+1000)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	assert.NoError(t, s.Ping(ctx))
}

func testInsertGet(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	alice := CreateUser(t, s, "alice", models.RoleRegular)

	first := InsertToken(t, s, alice.ID, "tok-1", base)
	second := InsertToken(t, s, alice.ID, "tok-2", base)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := s.GetTokenByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, alice.ID, got.UserID)
	assert.Equal(t, "alice", got.UserName)
	assert.Equal(t, "tok-1", got.Token)
	assert.True(t, got.ExpireTime.Equal(first.ExpireTime))
	assert.True(t, got.CreateTime.Equal(base))
	assert.True(t, got.UpdateTime.Equal(base))

	_, err = s.GetTokenByID(ctx, second.ID+1000)
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	// токен без существующего владельца сохраняется, имя пустое
	orphan := InsertToken(t, s, 9999, "tok-orphan", base)
	got, err = s.GetTokenByID(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Empty(t, got.UserName)
}

func testUpdate(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	alice := CreateUser(t, s, "alice", models.RoleRegular)
	bob := CreateUser(t, s, "bob", models.RoleRegular)

	token := InsertToken(t, s, alice.ID, "old", base)

	later := base.Add(time.Hour)
	rows, err := s.UpdateTokenByID(ctx, &models.AccessToken{
		ID:         token.ID,
		UserID:     bob.ID,
		Token:      "new",
		ExpireTime: later.Add(48 * time.Hour),
		CreateTime: later, // must be ignored
		UpdateTime: later,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	got, err := s.GetTokenByID(ctx, token.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.UserID)
	assert.Equal(t, "bob", got.UserName)
	assert.Equal(t, "new", got.Token)
	assert.True(t, got.ExpireTime.Equal(later.Add(48*time.Hour)))
	assert.True(t, got.CreateTime.Equal(base), "create time must survive update")
	assert.True(t, got.UpdateTime.Equal(later))

	rows, err = s.UpdateTokenByID(ctx, &models.AccessToken{ID: token.ID + 1000, Token: "x", UpdateTime: later})
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func testDelete(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	alice := CreateUser(t, s, "alice", models.RoleRegular)
	token := InsertToken(t, s, alice.ID, "tok", base)

	require.NoError(t, s.DeleteTokenByID(ctx, token.ID))
	_, err := s.GetTokenByID(ctx, token.ID)
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	// повторное удаление не является ошибкой
	assert.NoError(t, s.DeleteTokenByID(ctx, token.ID))
}

func testPageScoping(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	alice := CreateUser(t, s, "alice", models.RoleRegular)
	bob := CreateUser(t, s, "bob", models.RoleRegular)

	InsertToken(t, s, alice.ID, "a1", base)
	InsertToken(t, s, alice.ID, "a2", base.Add(time.Minute))
	InsertToken(t, s, bob.ID, "b1", base.Add(2*time.Minute))

	total, items, err := s.SelectTokenPage(ctx, storage.TokenPageQuery{UserID: alice.ID, PageNo: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, alice.ID, item.UserID)
		assert.Equal(t, "alice", item.UserName)
	}

	total, items, err = s.SelectTokenPage(ctx, storage.TokenPageQuery{UserID: storage.AllUsers, PageNo: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 3)

	total, items, err = s.SelectTokenPage(ctx, storage.TokenPageQuery{UserID: bob.ID + 1000, PageNo: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func testPageSearch(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	alice := CreateUser(t, s, "alice", models.RoleRegular)
	alina := CreateUser(t, s, "alina", models.RoleRegular)
	under := CreateUser(t, s, "al_x", models.RoleRegular)

	InsertToken(t, s, alice.ID, "t1", base)
	InsertToken(t, s, alina.ID, "t2", base)
	InsertToken(t, s, under.ID, "t3", base)

	tests := []struct {
		name   string
		search string
		owner  int64
		want   int64
	}{
		{name: "common prefix", search: "ali", owner: storage.AllUsers, want: 2},
		{name: "exact name", search: "alice", owner: storage.AllUsers, want: 1},
		{name: "case insensitive", search: "ALI", owner: storage.AllUsers, want: 2},
		{name: "underscore is literal", search: "_", owner: storage.AllUsers, want: 1},
		{name: "percent is literal", search: "%", owner: storage.AllUsers, want: 0},
		{name: "search combined with owner", search: "ali", owner: alina.ID, want: 1},
		{name: "no match", search: "zzz", owner: storage.AllUsers, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, items, err := s.SelectTokenPage(ctx, storage.TokenPageQuery{
				SearchVal: tt.search,
				UserID:    tt.owner,
				PageNo:    1,
				PageSize:  10,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, items, int(tt.want))
		})
	}
}

func testPaging(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	alice := CreateUser(t, s, "alice", models.RoleRegular)

	// пять токенов с возрастающим временем изменения и два с одинаковым
	var ids []int64
	for i := range 5 {
		tok := InsertToken(t, s, alice.ID, fmt.Sprintf("t%d", i), base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, tok.ID)
	}
	tie := InsertToken(t, s, alice.ID, "tie", base.Add(4*time.Minute))

	total, page1, err := s.SelectTokenPage(ctx, storage.TokenPageQuery{UserID: alice.ID, PageNo: 1, PageSize: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	require.Len(t, page1, 4)
	assert.Equal(t, []int64{tie.ID, ids[4], ids[3], ids[2]}, tokenIDs(page1))

	total, page2, err := s.SelectTokenPage(ctx, storage.TokenPageQuery{UserID: alice.ID, PageNo: 2, PageSize: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Equal(t, []int64{ids[1], ids[0]}, tokenIDs(page2))

	total, page3, err := s.SelectTokenPage(ctx, storage.TokenPageQuery{UserID: alice.ID, PageNo: 3, PageSize: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Empty(t, page3)

	// нулевые значения нормализуются к первой странице по умолчанию
	_, defaults, err := s.SelectTokenPage(ctx, storage.TokenPageQuery{UserID: alice.ID})
	require.NoError(t, err)
	assert.Len(t, defaults, 6)
}

func tokenIDs(tokens []*models.AccessToken) []int64 {
	ids := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		ids = append(ids, tok.ID)
	}
	return ids
}
