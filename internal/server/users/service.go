// Package users authenticates callers and manages the accounts that own
// access tokens.
package users

import (
	"context"
	"errors"
	"log/slog"

	"github.com/iudanet/tokenkeeper/internal/clock"
	"github.com/iudanet/tokenkeeper/internal/crypto"
	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/server/authz"
	"github.com/iudanet/tokenkeeper/internal/server/storage"
	"github.com/iudanet/tokenkeeper/internal/status"
	"github.com/iudanet/tokenkeeper/internal/validation"
)

// Service работает с учетными записями пользователей.
// Все ошибки возвращаются как *status.Error.
type Service struct {
	store  storage.UserStorage
	clock  clock.Clock
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source for created_at/updated_at.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService создает сервис пользователей
func NewService(store storage.UserStorage, opts ...Option) *Service {
	s := &Service{
		store:  store,
		clock:  clock.System{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate проверяет пару username/password.
// Неизвестный пользователь и неверный пароль неразличимы для вызывающего.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, &status.Error{Status: status.UserNamePasswdError}
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", username))
			return nil, &status.Error{Status: status.UserNamePasswdError}
		}
		s.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		return nil, &status.Error{Status: status.StorageUnavailable, Err: err}
	}

	if err := crypto.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, crypto.ErrPasswordMismatch) {
			s.logger.ErrorContext(ctx, "stored password hash is unreadable",
				slog.Int64("user_id", user.ID),
				slog.Any("error", err))
		} else {
			s.logger.WarnContext(ctx, "login failed: invalid password", slog.String("username", username))
		}
		return nil, &status.Error{Status: status.UserNamePasswdError}
	}

	return user, nil
}

// CreateUser создает пользователя. Доступно только администратору.
func (s *Service) CreateUser(ctx context.Context, caller *models.User, username, password string, role models.Role) (*models.User, error) {
	if st := authz.CheckAdmin(caller); !st.OK() {
		return nil, &status.Error{Status: st}
	}

	return s.create(ctx, username, password, role)
}

// GetUser возвращает пользователя по ID
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, &status.Error{Status: status.ResourceNotFound, Err: err}
		}
		return nil, &status.Error{Status: status.StorageUnavailable, Err: err}
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator unless a user with that
// name already exists. An existing account is left as is, password included.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := s.store.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			s.logger.WarnContext(ctx, "bootstrap admin name belongs to a regular user",
				slog.String("username", username))
		}
		return nil
	case !errors.Is(err, storage.ErrUserNotFound):
		return &status.Error{Status: status.StorageUnavailable, Err: err}
	}

	if _, err := s.create(ctx, username, password, models.RoleAdmin); err != nil {
		// Параллельный запуск мог создать администратора раньше нас
		if status.FromError(err) == status.UserNameExist {
			return nil
		}
		return err
	}

	s.logger.InfoContext(ctx, "bootstrap admin created", slog.String("username", username))
	return nil
}

func (s *Service) create(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, &status.Error{Status: status.RequestParamsNotValid, Err: err}
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, &status.Error{Status: status.RequestParamsNotValid, Err: err}
	}
	if !role.Valid() {
		return nil, status.Errorf(status.RequestParamsNotValid, "unknown role %d", int(role))
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		return nil, &status.Error{Status: status.CreateUserError, Err: err}
	}

	now := s.clock.Now()
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			s.logger.WarnContext(ctx, "user already exists", slog.String("username", username))
			return nil, &status.Error{Status: status.UserNameExist, Err: err}
		}
		s.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		return nil, &status.Error{Status: status.StorageUnavailable, Err: err}
	}

	s.logger.InfoContext(ctx, "user created",
		slog.String("username", username),
		slog.Int64("user_id", user.ID),
		slog.String("role", role.String()))

	return user, nil
}
