package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/tokenkeeper/internal/server/config"
	"github.com/iudanet/tokenkeeper/internal/server/storage"
	"github.com/iudanet/tokenkeeper/internal/server/storage/boltdb"
	"github.com/iudanet/tokenkeeper/internal/server/storage/postgres"
	"github.com/iudanet/tokenkeeper/internal/server/storage/sqlite"
)

// OpenStorage открывает хранилище, выбранное в конфигурации
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	var (
		store storage.Storage
		err   error
	)

	// Присваиваем через явные ветки: nil-указатель в интерфейсе не равен nil
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		var s *sqlite.Storage
		if s, err = sqlite.New(ctx, cfg.StorageDSN); err == nil {
			store = s
		}
	case config.DriverPostgres:
		var s *postgres.Storage
		s, err = postgres.New(ctx, cfg.StorageDSN, postgres.Options{
			Logger:          logger,
			RetryMaxElapsed: cfg.DBRetryMaxElapsed,
		})
		if err == nil {
			store = s
		}
	case config.DriverBolt:
		var s *boltdb.Storage
		if s, err = boltdb.New(ctx, cfg.StorageDSN); err == nil {
			store = s
		}
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "storage opened", slog.String("driver", cfg.StorageDriver))
	return store, nil
}
