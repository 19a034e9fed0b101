package config

import (
	"fmt"
	"strconv"
	"time"
)

const envPrefix = "TOKENKEEPER_"

// loadEnv накладывает непустые переменные окружения TOKENKEEPER_*
func loadEnv(cfg *Config, getenv func(string) string) error {
	strs := map[string]*string{
		"LISTEN_ADDR":    &cfg.ListenAddr,
		"STORAGE_DRIVER": &cfg.StorageDriver,
		"STORAGE_DSN":    &cfg.StorageDSN,
		"JWT_SECRET":     &cfg.JWTSecret,
		"ADMIN_USERNAME": &cfg.AdminUsername,
		"ADMIN_PASSWORD": &cfg.AdminPassword,
		"LOG_LEVEL":      &cfg.LogLevel,
	}
	for name, dst := range strs {
		if v := getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ACCESS_TOKEN_TTL":     &cfg.AccessTokenTTL,
		"SHUTDOWN_TIMEOUT":     &cfg.ShutdownTimeout,
		"DB_RETRY_MAX_ELAPSED": &cfg.DBRetryMaxElapsed,
	}
	for name, dst := range durations {
		v := getenv(envPrefix + name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
		}
		*dst = d
	}

	if v := getenv(envPrefix + "RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT_RPS: %w", envPrefix, err)
		}
		cfg.RateLimitRPS = rps
	}
	if v := getenv(envPrefix + "RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT_BURST: %w", envPrefix, err)
		}
		cfg.RateLimitBurst = burst
	}
	if v := getenv(envPrefix + "TRUST_PROXY_HEADERS"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sTRUST_PROXY_HEADERS: %w", envPrefix, err)
		}
		cfg.TrustProxyHeaders = trust
	}

	return nil
}
