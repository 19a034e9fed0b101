package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/server/storage"
	"github.com/iudanet/tokenkeeper/internal/server/storage/storagetest"
)

func TestStorage_Suite(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		s, cleanup := setupTestStorage(t)
		t.Cleanup(cleanup)
		return s
	})
}

func TestTokenStorage_InsertTokenStoresUTC(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, ctx, s, "alice", models.RoleRegular)

	moscow := time.FixedZone("MSK", 3*60*60)
	created := time.Date(2025, 5, 1, 15, 0, 0, 0, moscow)
	token := &models.AccessToken{
		UserID:     user.ID,
		Token:      "abc",
		ExpireTime: created.Add(time.Hour),
		CreateTime: created,
		UpdateTime: created,
	}
	rows, err := s.InsertToken(ctx, token)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	got, err := s.GetTokenByID(ctx, token.ID)
	require.NoError(t, err)
	assert.True(t, got.CreateTime.Equal(created))
	assert.Equal(t, time.UTC, got.CreateTime.Location())
}

func TestStorage_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.db")

	s, err := New(ctx, path)
	require.NoError(t, err)
	user := createTestUser(t, ctx, s, "alice", models.RoleRegular)
	token := storagetest.InsertToken(t, s, user.ID, "persisted", time.Now().UTC())
	require.NoError(t, s.Close())

	// Повторный запуск миграций не должен ломать существующую базу
	s, err = New(ctx, path)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	got, err := s.GetTokenByID(ctx, token.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Token)
	assert.Equal(t, "alice", got.UserName)
}
