package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	devSessionSecret = "dev-insecure-session-secret"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionSecret signs the browser identity cookie.
	SessionSecret string `env:"SESSION_SECRET, default=dev-insecure-session-secret"`
	CookieSecure  bool   `env:"COOKIE_SECURE,  default=false"`

	StoreBackend       string        `env:"STORE_BACKEND,         default=redis"`
	CredentialTTL      time.Duration `env:"CREDENTIAL_TTL,        default=24h"`
	AdminTableTTL      time.Duration `env:"ADMIN_TABLE_TTL,       default=30m"`
	// RateLimitPerMinute caps auth form posts per client IP. Zero disables it.
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE, default=20"`

	API   APIConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// APIConfig locates the remote auth API.
type APIConfig struct {
	BaseURL   string        `env:"API_BASE_URL, default=http://localhost:8000"`
	LoginPath string        `env:"LOGIN_PATH,   default=/login"`
	Timeout   time.Duration `env:"API_TIMEOUT,  default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_auth_ui"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Validate rejects settings that cannot work or are unsafe in production.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreRedis, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("config: SESSION_SECRET must not be empty")
	}
	if c.IsProduction() {
		if c.SessionSecret == devSessionSecret {
			return fmt.Errorf("config: SESSION_SECRET must be set in production")
		}
		if c.StoreBackend == StoreMemory {
			return fmt.Errorf("config: memory store is not durable, pick redis or mongo in production")
		}
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l, which lets tests supply a map.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
