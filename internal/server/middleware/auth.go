package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/tokenkeeper/internal/server/handlers"
	"github.com/iudanet/tokenkeeper/internal/status"
)

// AuthMiddleware создает middleware для проверки JWT токена.
// Пользователь из claims кладется в контекст (handlers.GetCaller).
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "missing Authorization header")
				handlers.WriteStatus(w, logger, status.Unauthenticated, nil)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				logger.WarnContext(ctx, "invalid Authorization header format")
				handlers.WriteStatus(w, logger, status.Unauthenticated, nil)
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, parts[1])
			if err != nil {
				logger.WarnContext(ctx, "invalid access token", slog.Any("error", err))
				handlers.WriteStatus(w, logger, status.Unauthenticated, nil)
				return
			}

			logger.DebugContext(ctx, "user authenticated",
				slog.Int64("user_id", claims.UserID),
				slog.String("username", claims.Username))

			next.ServeHTTP(w, r.WithContext(handlers.WithCaller(ctx, claims.Caller())))
		})
	}
}
