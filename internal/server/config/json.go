package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration принимает в JSON как строку ("15m"), так и число наносекунд
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// fileConfig is the JSON form of Config. Pointer fields distinguish an absent
// key from a zero value, so the file only overrides what it names.
type fileConfig struct {
	ListenAddr        *string   `json:"listen_addr"`
	StorageDriver     *string   `json:"storage_driver"`
	StorageDSN        *string   `json:"storage_dsn"`
	JWTSecret         *string   `json:"jwt_secret"`
	AdminUsername     *string   `json:"admin_username"`
	AdminPassword     *string   `json:"admin_password"`
	LogLevel          *string   `json:"log_level"`
	AccessTokenTTL    *Duration `json:"access_token_ttl"`
	ShutdownTimeout   *Duration `json:"shutdown_timeout"`
	DBRetryMaxElapsed *Duration `json:"db_retry_max_elapsed"`
	RateLimitRPS      *float64  `json:"rate_limit_rps"`
	RateLimitBurst    *int      `json:"rate_limit_burst"`
	TrustProxyHeaders *bool     `json:"trust_proxy_headers"`
}

func loadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setIf(&cfg.ListenAddr, fc.ListenAddr)
	setIf(&cfg.StorageDriver, fc.StorageDriver)
	setIf(&cfg.StorageDSN, fc.StorageDSN)
	setIf(&cfg.JWTSecret, fc.JWTSecret)
	setIf(&cfg.AdminUsername, fc.AdminUsername)
	setIf(&cfg.AdminPassword, fc.AdminPassword)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.RateLimitRPS, fc.RateLimitRPS)
	setIf(&cfg.RateLimitBurst, fc.RateLimitBurst)
	setIf(&cfg.TrustProxyHeaders, fc.TrustProxyHeaders)
	if fc.AccessTokenTTL != nil {
		cfg.AccessTokenTTL = fc.AccessTokenTTL.Duration
	}
	if fc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	if fc.DBRetryMaxElapsed != nil {
		cfg.DBRetryMaxElapsed = fc.DBRetryMaxElapsed.Duration
	}

	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
