package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/tokenkeeper/internal/clock"
	"github.com/iudanet/tokenkeeper/internal/status"
	"github.com/iudanet/tokenkeeper/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger    *slog.Logger
	users     UserService
	clock     clock.Clock
	jwtConfig JWTConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, users UserService, clk clock.Clock, jwtConfig JWTConfig) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		users:     users,
		clock:     clk,
		jwtConfig: jwtConfig,
	}
}

// Login обрабатывает POST /api/v1/auth/login
// Проверяет пароль и выдает JWT, идентифицирующий вызывающего
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		writeInvalid(w, h.logger, "invalid request body")
		return
	}

	user, err := h.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		WriteStatus(w, h.logger, status.FromError(err), nil)
		return
	}

	accessToken, expiresIn, err := GenerateAccessToken(h.jwtConfig, user, h.clock.Now())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		WriteStatus(w, h.logger, status.InternalServerError, nil)
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", user.Username),
		slog.Int64("user_id", user.ID))

	WriteStatus(w, h.logger, status.Success, api.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	})
}
