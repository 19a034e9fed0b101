package app

import (
	"net/http"

	"github.com/iudanet/tokenkeeper/internal/server/handlers"
	"github.com/iudanet/tokenkeeper/internal/server/middleware"
)

type routeDeps struct {
	auth    *handlers.AuthHandler
	tokens  *handlers.TokenHandler
	users   *handlers.UserHandler
	health  *handlers.HealthHandler
	metrics http.Handler
	jwt     handlers.JWTConfig
}

func (a *App) routes(mux *http.ServeMux, d routeDeps) {
	protected := middleware.AuthMiddleware(a.logger, d.jwt)
	authed := func(h http.HandlerFunc) http.Handler {
		return protected(h)
	}

	// Публичные маршруты
	mux.HandleFunc("GET /api/v1/health", d.health.Health)
	mux.Handle("GET /metrics", d.metrics)
	mux.HandleFunc("POST /api/v1/auth/login", d.auth.Login)

	// Токены доступа
	mux.Handle("GET /api/v1/access-tokens", authed(d.tokens.List))
	mux.Handle("POST /api/v1/access-tokens", authed(d.tokens.Create))
	mux.Handle("POST /api/v1/access-tokens/generate", authed(d.tokens.Generate))
	mux.Handle("GET /api/v1/access-tokens/{id}", authed(d.tokens.Get))
	mux.Handle("PUT /api/v1/access-tokens/{id}", authed(d.tokens.Update))
	mux.Handle("DELETE /api/v1/access-tokens/{id}", authed(d.tokens.Delete))

	// Пользователи
	mux.Handle("POST /api/v1/users", authed(d.users.Create))
}
