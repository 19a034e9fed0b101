package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/tokenkeeper/internal/clock"
	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/server/storage/sqlite"
	"github.com/iudanet/tokenkeeper/internal/server/tokens"
	"github.com/iudanet/tokenkeeper/internal/server/users"
	"github.com/iudanet/tokenkeeper/pkg/api"
)

var testNow = time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv собирает настоящие сервисы поверх in-memory SQLite
type testEnv struct {
	store   *sqlite.Storage
	clock   *clock.Fixed
	users   *users.Service
	tokens  *tokens.Service
	admin   *models.User
	alice   *models.User
	bob     *models.User
	handler *TokenHandler
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := setupTestLogger()

	store, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clk := clock.NewFixed(testNow)
	env := &testEnv{
		store:  store,
		clock:  clk,
		users:  users.NewService(store, users.WithClock(clk), users.WithLogger(logger)),
		tokens: tokens.NewService(store, tokens.WithClock(clk), tokens.WithLogger(logger)),
	}

	require.NoError(t, env.users.EnsureAdmin(ctx, "admin", "admin-password"))
	env.admin, err = store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)

	env.alice, err = env.users.CreateUser(ctx, env.admin, "alice", "alice-password", models.RoleRegular)
	require.NoError(t, err)
	env.bob, err = env.users.CreateUser(ctx, env.admin, "bob", "bob-password", models.RoleRegular)
	require.NoError(t, err)

	env.handler = NewTokenHandler(logger, env.tokens)
	return env
}

// newRequest создает запрос с пользователем в контексте (nil - без пользователя)
func newRequest(t *testing.T, method, target string, caller *models.User, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if caller != nil {
		req = req.WithContext(WithCaller(req.Context(), caller))
	}
	return req
}

// decodeResponse разбирает конверт ответа, data декодируется в out (если не nil)
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, out any) api.Response {
	t.Helper()

	var raw struct {
		Data json.RawMessage `json:"data"`
		Msg  string          `json:"msg"`
		Code int             `json:"code"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))

	if out != nil {
		require.NotEmpty(t, raw.Data, "response has no data")
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}

	return api.Response{Code: raw.Code, Msg: raw.Msg}
}
