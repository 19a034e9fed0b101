package handlers

import (
	"context"

	"github.com/iudanet/tokenkeeper/internal/models"
)

// contextKey тип для ключей контекста
type contextKey string

// CallerKey ключ для хранения аутентифицированного пользователя в контексте
const CallerKey contextKey = "caller"

// WithCaller возвращает контекст с пользователем, выполняющим запрос
func WithCaller(ctx context.Context, caller *models.User) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

// GetCaller извлекает пользователя, выполняющего запрос, из контекста
func GetCaller(ctx context.Context) (*models.User, bool) {
	caller, ok := ctx.Value(CallerKey).(*models.User)
	return caller, ok && caller != nil
}
