// Package config собирает настройки сервера: значения по умолчанию,
// затем JSON файл, затем переменные окружения TOKENKEEPER_*, затем флаги.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// minSecretLen минимальная длина секрета для HS256
const minSecretLen = 32

// Config holds runtime settings of the server.
type Config struct {
	ListenAddr        string
	StorageDriver     string
	StorageDSN        string // путь к файлу для sqlite/bolt, DSN для postgres
	JWTSecret         string
	AdminUsername     string
	AdminPassword     string // пустой пароль отключает создание администратора
	LogLevel          string
	ConfigFile        string
	AccessTokenTTL    time.Duration
	ShutdownTimeout   time.Duration
	DBRetryMaxElapsed time.Duration
	RateLimitRPS      float64 // 0 отключает ограничение частоты
	RateLimitBurst    int
	TrustProxyHeaders bool // брать IP клиента из X-Forwarded-For/X-Real-IP
	ShowVersion       bool
}

// Default returns the development defaults. JWTSecret is left empty and must
// be provided.
func Default() *Config {
	return &Config{
		ListenAddr:        ":8080",
		StorageDriver:     DriverSQLite,
		StorageDSN:        "tokenkeeper.db",
		AdminUsername:     "admin",
		LogLevel:          "info",
		AccessTokenTTL:    15 * time.Minute,
		ShutdownTimeout:   10 * time.Second,
		DBRetryMaxElapsed: 30 * time.Second,
		RateLimitRPS:      10,
		RateLimitBurst:    20,
	}
}

// Load builds a Config from args (без имени программы) and the environment
// lookup function.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	path := configPath(args)
	if path == "" {
		path = getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := loadJSON(cfg, path); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}

	if err := loadEnv(cfg, getenv); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек, собирая все ошибки сразу
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres, DriverBolt:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}
	if c.StorageDSN == "" {
		result = multierror.Append(result, errors.New("storage dsn is required"))
	}
	if len(c.JWTSecret) < minSecretLen {
		result = multierror.Append(result, fmt.Errorf("jwt secret must be at least %d bytes", minSecretLen))
	}
	if c.AccessTokenTTL <= 0 {
		result = multierror.Append(result, errors.New("access token ttl must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		result = multierror.Append(result, errors.New("shutdown timeout must be positive"))
	}
	if c.RateLimitRPS < 0 {
		result = multierror.Append(result, errors.New("rate limit rps must not be negative"))
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		result = multierror.Append(result, errors.New("rate limit burst must be at least 1"))
	}
	if c.AdminPassword != "" && c.AdminUsername == "" {
		result = multierror.Append(result, errors.New("admin username is required with admin password"))
	}
	if _, err := c.SlogLevel(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// SlogLevel разбирает LogLevel ("debug", "info", "warn", "error")
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
