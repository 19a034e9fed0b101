package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/status"
	"github.com/iudanet/tokenkeeper/pkg/api"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:         []byte("test-secret-key-at-least-32-bytes-long"),
		AccessTokenTTL: 15 * time.Minute,
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)
	cfg := testJWTConfig()
	// JWT проверяется по реальному времени, поэтому выдаем его по системным часам
	handler := NewAuthHandler(setupTestLogger(), env.users, realClock{}, cfg)

	tests := []struct {
		body     any
		name     string
		wantCode int
		wantSt   status.Status
	}{
		{name: "success", body: api.LoginRequest{Username: "alice", Password: "alice-password"}, wantCode: http.StatusOK, wantSt: status.Success},
		{name: "wrong password", body: api.LoginRequest{Username: "alice", Password: "nope-nope"}, wantCode: http.StatusUnauthorized, wantSt: status.UserNamePasswdError},
		{name: "unknown user", body: api.LoginRequest{Username: "carol", Password: "alice-password"}, wantCode: http.StatusUnauthorized, wantSt: status.UserNamePasswdError},
		{name: "empty body", body: api.LoginRequest{}, wantCode: http.StatusUnauthorized, wantSt: status.UserNamePasswdError},
		{name: "invalid json", body: "{", wantCode: http.StatusBadRequest, wantSt: status.RequestParamsNotValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Login(w, newRequest(t, http.MethodPost, "/api/v1/auth/login", nil, tt.body))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if !tt.wantSt.OK() {
				assert.Equal(t, tt.wantSt.Code(), decodeResponse(t, w, nil).Code)
				return
			}

			var login api.LoginResponse
			decodeResponse(t, w, &login)
			assert.Equal(t, "Bearer", login.TokenType)
			assert.EqualValues(t, 900, login.ExpiresIn)

			claims, err := ValidateAccessToken(cfg, login.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, env.alice.ID, claims.UserID)
			assert.Equal(t, "alice", claims.Username)
			assert.Equal(t, models.RoleRegular, claims.Role)
		})
	}
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
