// Package app wires storage, services, handlers and middleware into a
// running HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/iudanet/tokenkeeper/internal/clock"
	"github.com/iudanet/tokenkeeper/internal/server/config"
	"github.com/iudanet/tokenkeeper/internal/server/handlers"
	"github.com/iudanet/tokenkeeper/internal/server/metrics"
	"github.com/iudanet/tokenkeeper/internal/server/middleware"
	"github.com/iudanet/tokenkeeper/internal/server/storage"
	"github.com/iudanet/tokenkeeper/internal/server/tokens"
	"github.com/iudanet/tokenkeeper/internal/server/users"
)

// quietPaths не попадают в access log
var quietPaths = []string{"/api/v1/health", "/metrics"}

// App is the assembled server.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   storage.Storage
	limiter *middleware.RateLimiter
	handler http.Handler
}

// New собирает приложение. Хранилище открывается по конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*App, error) {
	store, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a, err := NewWithStorage(ctx, cfg, logger, store, version)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

// NewWithStorage собирает приложение поверх уже открытого хранилища.
// App забирает store во владение и закрывает его в Close.
func NewWithStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger, store storage.Storage, version string) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	clk := clock.System{}
	userSvc := users.NewService(store, users.WithClock(clk), users.WithLogger(logger))
	tokenSvc := tokens.NewService(store,
		tokens.WithClock(clk),
		tokens.WithLogger(logger),
		tokens.WithRecorder(collector),
	)

	if cfg.AdminPassword != "" {
		if err := userSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	} else {
		logger.WarnContext(ctx, "admin password is not set, bootstrap admin is not created")
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}

	jwtCfg := handlers.JWTConfig{
		Secret:         []byte(cfg.JWTSecret),
		AccessTokenTTL: cfg.AccessTokenTTL,
	}

	mux := http.NewServeMux()
	a.routes(mux, routeDeps{
		jwt:     jwtCfg,
		auth:    handlers.NewAuthHandler(logger, userSvc, clk, jwtCfg),
		tokens:  handlers.NewTokenHandler(logger, tokenSvc),
		users:   handlers.NewUserHandler(logger, userSvc),
		health:  handlers.NewHealthHandler(logger, store, collector, version),
		metrics: metrics.Handler(registry),
	})

	var h http.Handler = middleware.MetricsMiddleware(collector)(mux)
	if cfg.RateLimitRPS > 0 {
		a.limiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			Rate:              rate.Limit(cfg.RateLimitRPS),
			Burst:             cfg.RateLimitBurst,
			TrustProxyHeaders: cfg.TrustProxyHeaders,
		}, logger, collector)
		h = a.limiter.Middleware()(h)
	}
	h = middleware.LoggingWithSkip(logger, quietPaths)(h)
	h = middleware.RecoveryMiddleware(logger)(h)
	a.handler = h

	return a, nil
}

// Handler возвращает корневой HTTP handler со всеми middleware
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run слушает cfg.ListenAddr до отмены ctx, затем выполняет graceful shutdown
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.ListenAddr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve обслуживает запросы на ln до отмены ctx
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(a.logger.Handler(), slog.LevelWarn),
	}

	errC := make(chan error, 1)
	go func() {
		a.logger.Info("server started", slog.String("addr", ln.Addr().String()))
		errC <- srv.Serve(ln)
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server", slog.Duration("timeout", a.cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	if err := <-errC; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}

// Close освобождает ресурсы приложения, собирая все ошибки
func (a *App) Close() error {
	var result *multierror.Error

	if a.limiter != nil {
		a.limiter.Stop()
	}
	if err := a.store.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("failed to close storage: %w", err))
	}

	return result.ErrorOrNil()
}
