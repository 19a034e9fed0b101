package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/status"
	"github.com/iudanet/tokenkeeper/pkg/api"
)

// UserHandler обрабатывает управление пользователями
type UserHandler struct {
	logger *slog.Logger
	users  UserService
}

// NewUserHandler создает новый handler для пользователей
func NewUserHandler(logger *slog.Logger, users UserService) *UserHandler {
	return &UserHandler{
		logger: logger,
		users:  users,
	}
}

// Create обрабатывает POST /api/v1/users
// Создать пользователя может только администратор
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := GetCaller(ctx)
	if !ok {
		WriteStatus(w, h.logger, status.Unauthenticated, nil)
		return
	}

	var req api.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode create user request", slog.Any("error", err))
		writeInvalid(w, h.logger, "invalid request body")
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		writeInvalid(w, h.logger, err.Error())
		return
	}

	user, err := h.users.CreateUser(ctx, caller, req.Username, req.Password, role)
	if err != nil {
		st := status.FromError(err)
		if st == status.RequestParamsNotValid {
			writeInvalid(w, h.logger, invalidReason(err))
			return
		}
		WriteStatus(w, h.logger, st, nil)
		return
	}

	WriteResponse(w, h.logger, http.StatusCreated, status.Success, toAPIUser(user))
}

func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:         u.ID,
		Username:   u.Username,
		Role:       u.Role.String(),
		CreateTime: api.FormatDateTime(u.CreatedAt),
	}
}
