// Package tokens manages the lifecycle of user access tokens: generation,
// creation, full-replace update, admin-only deletion and owner-scoped listing.
package tokens

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/iudanet/tokenkeeper/internal/clock"
	"github.com/iudanet/tokenkeeper/internal/crypto"
	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/server/authz"
	"github.com/iudanet/tokenkeeper/internal/server/storage"
	"github.com/iudanet/tokenkeeper/internal/status"
	"github.com/iudanet/tokenkeeper/pkg/api"
)

// Operation names reported to the Recorder.
const (
	OpList     = "list"
	OpGenerate = "generate"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpGet      = "get"
)

// Recorder receives the outcome of every service call.
type Recorder interface {
	ObserveTokenOp(op string, st status.Status)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTokenOp(string, status.Status) {}

// Service implements the access token operations over a TokenStorage.
// It keeps no mutable state of its own; concurrent writes to the same id
// resolve as last-writer-wins in storage.
type Service struct {
	store    storage.TokenStorage
	clock    clock.Clock
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for generation and timestamps.
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

// WithRecorder sets the sink for per-operation outcomes.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService создает сервис токенов поверх хранилища
func NewService(store storage.TokenStorage, opts ...Option) *Service {
	s := &Service{
		store:    store,
		clock:    clock.System{},
		logger:   slog.Default(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateToken derives a token string from the owner, the expiry and the
// current instant in milliseconds. It is a pure function: equal inputs give
// equal output, and calls at different milliseconds give different tokens.
func GenerateToken(userID int64, expireTime, now time.Time) string {
	input := strconv.FormatInt(userID, 10) +
		api.FormatDateTime(expireTime) +
		strconv.FormatInt(now.UnixMilli(), 10)
	return crypto.Digest(input)
}

// ListTokens returns one page of tokens visible to caller. Administrators
// see every owner's tokens; anyone else only their own.
func (s *Service) ListTokens(ctx context.Context, caller *models.User, searchVal string, pageNo, pageSize int) Result[*models.PageInfo[*models.AccessToken]] {
	if caller == nil {
		return observe(s, OpList, failure[*models.PageInfo[*models.AccessToken]](status.Unauthenticated, nil))
	}

	owner := caller.ID
	if caller.IsAdmin() {
		owner = storage.AllUsers
	}

	q := storage.TokenPageQuery{
		SearchVal: searchVal,
		PageNo:    pageNo,
		PageSize:  pageSize,
		UserID:    owner,
	}.Normalize()

	total, items, err := s.store.SelectTokenPage(ctx, q)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list access tokens",
			slog.Int64("caller_id", caller.ID),
			slog.Any("error", err))
		return observe(s, OpList, failure[*models.PageInfo[*models.AccessToken]](status.StorageUnavailable, err))
	}

	return observe(s, OpList, success(models.NewPageInfo(q.PageNo, q.PageSize, total, items)))
}

// GenerateToken returns a fresh token string for userID without storing it.
func (s *Service) GenerateToken(ctx context.Context, userID int64, expireTime time.Time) Result[string] {
	return observe(s, OpGenerate, success(GenerateToken(userID, expireTime, s.clock.Now())))
}

// CreateToken stores a new token for userID. No role or ownership check is
// made here; callers are expected to be authorized by the transport layer.
func (s *Service) CreateToken(ctx context.Context, userID int64, expireTime time.Time, token string) Result[*models.AccessToken] {
	now := s.clock.Now()
	record := &models.AccessToken{
		UserID:     userID,
		Token:      token,
		ExpireTime: expireTime,
		CreateTime: now,
		UpdateTime: now,
	}

	rows, err := s.store.InsertToken(ctx, record)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create access token",
			slog.Int64("user_id", userID),
			slog.Any("error", err))
		return observe(s, OpCreate, failure[*models.AccessToken](status.StorageUnavailable, err))
	}
	if rows == 0 {
		s.logger.WarnContext(ctx, "access token insert affected no rows", slog.Int64("user_id", userID))
		return observe(s, OpCreate, failure[*models.AccessToken](status.CreateAccessTokenError, nil))
	}

	s.logger.InfoContext(ctx, "access token created",
		slog.Int64("token_id", record.ID),
		slog.Int64("user_id", userID))

	return observe(s, OpCreate, success(record))
}

// UpdateToken overwrites owner, expiry and token string of record id and
// refreshes its update time. An unknown id is a silent no-op. Like
// CreateToken, no authorization is applied here.
func (s *Service) UpdateToken(ctx context.Context, id, userID int64, expireTime time.Time, token string) Result[struct{}] {
	record := &models.AccessToken{
		ID:         id,
		UserID:     userID,
		Token:      token,
		ExpireTime: expireTime,
		UpdateTime: s.clock.Now(),
	}

	rows, err := s.store.UpdateTokenByID(ctx, record)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update access token",
			slog.Int64("token_id", id),
			slog.Any("error", err))
		return observe(s, OpUpdate, failure[struct{}](status.StorageUnavailable, err))
	}
	if rows == 0 {
		s.logger.DebugContext(ctx, "update of unknown access token id", slog.Int64("token_id", id))
	}

	return observe(s, OpUpdate, success(struct{}{}))
}

// DeleteToken removes record id. Only administrators may delete; for anyone
// else storage is left untouched. Deleting an unknown id succeeds.
func (s *Service) DeleteToken(ctx context.Context, caller *models.User, id int64) Result[struct{}] {
	if st := authz.CheckAdmin(caller); !st.OK() {
		s.logger.WarnContext(ctx, "access token delete denied", slog.Int64("token_id", id))
		return observe(s, OpDelete, failure[struct{}](st, nil))
	}

	if err := s.store.DeleteTokenByID(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete access token",
			slog.Int64("token_id", id),
			slog.Any("error", err))
		return observe(s, OpDelete, failure[struct{}](status.StorageUnavailable, err))
	}

	s.logger.InfoContext(ctx, "access token deleted",
		slog.Int64("token_id", id),
		slog.Int64("caller_id", caller.ID))

	return observe(s, OpDelete, success(struct{}{}))
}

// GetToken returns record id if caller owns it or is an administrator.
func (s *Service) GetToken(ctx context.Context, caller *models.User, id int64) Result[*models.AccessToken] {
	token, err := s.store.GetTokenByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return observe(s, OpGet, failure[*models.AccessToken](status.ResourceNotFound, nil))
		}
		s.logger.ErrorContext(ctx, "failed to get access token",
			slog.Int64("token_id", id),
			slog.Any("error", err))
		return observe(s, OpGet, failure[*models.AccessToken](status.StorageUnavailable, err))
	}

	if !authz.CanRead(caller, token.UserID) {
		return observe(s, OpGet, failure[*models.AccessToken](status.UserNoOperationPerm, nil))
	}

	return observe(s, OpGet, success(token))
}
