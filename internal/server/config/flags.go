package config

import (
	"flag"
	"io"
	"strings"
)

// parseFlags накладывает флаги командной строки.
// Значения по умолчанию флагов - уже собранная конфигурация,
// поэтому переопределяется только то, что передано явно.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("tokenkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var file string
	fs.StringVar(&file, "c", cfg.ConfigFile, "path to JSON config file")
	fs.StringVar(&file, "config", cfg.ConfigFile, "path to JSON config file")

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to listen on")
	fs.StringVar(&cfg.StorageDriver, "driver", cfg.StorageDriver, "storage driver: sqlite, postgres or bolt")
	fs.StringVar(&cfg.StorageDSN, "d", cfg.StorageDSN, "database file path or DSN")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "JWT HMAC secret")
	fs.DurationVar(&cfg.AccessTokenTTL, "t", cfg.AccessTokenTTL, "JWT lifetime")
	fs.StringVar(&cfg.AdminUsername, "admin-user", cfg.AdminUsername, "bootstrap admin user name")
	fs.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "bootstrap admin password")
	fs.Float64Var(&cfg.RateLimitRPS, "rps", cfg.RateLimitRPS, "requests per second per client, 0 disables")
	fs.IntVar(&cfg.RateLimitBurst, "burst", cfg.RateLimitBurst, "rate limit burst")
	fs.BoolVar(&cfg.TrustProxyHeaders, "trust-proxy", cfg.TrustProxyHeaders, "take client IP from X-Forwarded-For/X-Real-IP")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	fs.DurationVar(&cfg.DBRetryMaxElapsed, "db-retry", cfg.DBRetryMaxElapsed, "max time to wait for the database at start-up")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "show version information")

	return fs.Parse(args)
}

// configPath ищет -c/-config до полного разбора флагов,
// так как файл должен примениться раньше флагов
func configPath(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := strings.TrimLeft(args[i], "-")
		if arg == args[i] {
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		if name != "c" && name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
