package handlers

import (
	"context"
	"time"

	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/server/tokens"
)

// TokenService описывает операции над токенами доступа, нужные HTTP слою
type TokenService interface {
	ListTokens(ctx context.Context, caller *models.User, searchVal string, pageNo, pageSize int) tokens.Result[*models.PageInfo[*models.AccessToken]]
	GenerateToken(ctx context.Context, userID int64, expireTime time.Time) tokens.Result[string]
	CreateToken(ctx context.Context, userID int64, expireTime time.Time, token string) tokens.Result[*models.AccessToken]
	UpdateToken(ctx context.Context, id, userID int64, expireTime time.Time, token string) tokens.Result[struct{}]
	DeleteToken(ctx context.Context, caller *models.User, id int64) tokens.Result[struct{}]
	GetToken(ctx context.Context, caller *models.User, id int64) tokens.Result[*models.AccessToken]
}

// UserService описывает операции над пользователями, нужные HTTP слою
type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	CreateUser(ctx context.Context, caller *models.User, username, password string, role models.Role) (*models.User, error)
}

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}
