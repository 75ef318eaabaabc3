package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"sales_ledger/internal/report"
)

// Config holds every runtime setting, read from the environment.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	AppPassword string

	DatabaseDSN string

	WebhookURL  string
	HTTPTimeout time.Duration

	StateBackend string
	StateFile    string
	RedisAddr    string
	RedisPass    string

	Location       *time.Location
	Catalog        report.Catalog
	MetricsEnabled bool
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file > default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", ""),
		AppPassword:  os.Getenv("APP_PASSWORD"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "data/ledger.db"),
		WebhookURL:   strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK_URL")),
		StateBackend: strings.ToLower(getEnv("NOTIFY_STATE_BACKEND", "db")),
		StateFile:    getEnv("NOTIFY_STATE_FILE", "data/metadata.json"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),

		MetricsEnabled: ParseBool("METRICS_ENABLED", false),
	}

	timeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return cfg, fmt.Errorf("HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	switch cfg.StateBackend {
	case "db", "file", "redis":
	default:
		return cfg, fmt.Errorf("NOTIFY_STATE_BACKEND: unknown backend %q", cfg.StateBackend)
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		return cfg, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	cfg.Catalog = report.DefaultCatalog()
	if raw := os.Getenv("PRODUCT_CATALOG"); raw != "" {
		c, err := report.ParseCatalog(raw)
		if err != nil {
			return cfg, fmt.Errorf("PRODUCT_CATALOG: %w", err)
		}
		cfg.Catalog = c
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	return def
}
