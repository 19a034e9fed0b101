// Package postgres implements storage.Storage on top of PostgreSQL via the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/pressly/goose/v3"

	"github.com/iudanet/tokenkeeper/internal/server/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var _ storage.Storage = (*Storage)(nil)

// uniqueViolation is the SQLSTATE of unique_violation.
const uniqueViolation = "23505"

// gooseUpContext is replaced in tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Storage is the PostgreSQL storage implementation
type Storage struct {
	db *sql.DB
}

// Options tune how New connects.
type Options struct {
	Logger *slog.Logger
	// RetryMaxElapsed bounds how long New keeps retrying the initial ping.
	// Zero disables retries.
	RetryMaxElapsed time.Duration
}

// New opens a connection pool to dsn, waits for the server to answer and
// applies the embedded migrations.
func New(ctx context.Context, dsn string, opts Options) (*Storage, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := pingWithRetry(ctx, db, opts.RetryMaxElapsed, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := NewWithDB(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// NewWithDB wraps an already opened pool. Migrations are not applied.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func pingWithRetry(ctx context.Context, db *sql.DB, maxElapsed time.Duration, logger *slog.Logger) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxElapsed

	var b backoff.BackOff = policy
	if maxElapsed <= 0 {
		b = &backoff.StopBackOff{}
	}

	err := backoff.RetryNotify(
		func() error {
			return db.PingContext(ctx)
		},
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			logger.Warn("Database is not reachable, retrying",
				"error", err,
				"next_attempt_in", next,
			)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Migrate applies the embedded goose migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// Ping checks that the database is reachable
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
