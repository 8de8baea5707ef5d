package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server  ServerConfig
	App     AppConfig
	KV      KVConfig
	Redis   RedisConfig
	Cache   CacheConfig
	Catalog CatalogConfig
	Session SessionConfig
	Auth    AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"metamarket-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	// APIKeys, when set, are required in X-API-Key on every /api/v1 request.
	APIKeys []string `envconfig:"API_KEYS" default:""`
}

// KVConfig selects and configures the persistent key-value backend.
type KVConfig struct {
	Backend string `envconfig:"KV_BACKEND" default:"sqlite"` // sqlite, mysql, postgres, redis, memory
	Path    string `envconfig:"KV_SQLITE_PATH" default:"./data/metamarket.db"`

	// MySQL settings
	MySQLHost     string `envconfig:"KV_MYSQL_HOST" default:"localhost"`
	MySQLPort     int    `envconfig:"KV_MYSQL_PORT" default:"3306"`
	MySQLName     string `envconfig:"KV_MYSQL_NAME" default:"metamarket"`
	MySQLUser     string `envconfig:"KV_MYSQL_USER" default:"root"`
	MySQLPassword string `envconfig:"KV_MYSQL_PASS" default:""`

	// PostgreSQL settings
	PostgresHost     string `envconfig:"KV_POSTGRES_HOST" default:"localhost"`
	PostgresPort     int    `envconfig:"KV_POSTGRES_PORT" default:"5432"`
	PostgresName     string `envconfig:"KV_POSTGRES_NAME" default:"metamarket"`
	PostgresUser     string `envconfig:"KV_POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"KV_POSTGRES_PASS" default:""`
	PostgresSSLMode  string `envconfig:"KV_POSTGRES_SSLMODE" default:"disable"`

	RedisPrefix string `envconfig:"KV_REDIS_PREFIX" default:"metamarket:kv:"`
}

// RedisConfig is shared by the redis KV backend and the redis cache.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// CacheConfig holds catalog cache settings.
type CacheConfig struct {
	Type   string        `envconfig:"CACHE_TYPE" default:"memory"` // memory, redis, none
	TTL    time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	Prefix string        `envconfig:"CACHE_REDIS_PREFIX" default:"metamarket:cache:"`
}

// CatalogConfig points at the upstream card catalog.
type CatalogConfig struct {
	BaseURL   string        `envconfig:"CATALOG_BASE_URL" default:"http://localhost:8000/api/v1"`
	RateLimit float64       `envconfig:"CATALOG_RATE_LIMIT" default:"10"` // requests per second
	Burst     int           `envconfig:"CATALOG_BURST" default:"5"`
	Timeout   time.Duration `envconfig:"CATALOG_TIMEOUT" default:"10s"`
}

// SessionConfig controls in-memory profile sessions.
type SessionConfig struct {
	IdleTimeout   time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`
}

// AuthConfig configures the mock login.
type AuthConfig struct {
	DemoEmail    string        `envconfig:"AUTH_DEMO_EMAIL" default:"demo@example.com"`
	DemoPassword string        `envconfig:"AUTH_DEMO_PASSWORD" default:"password"`
	Latency      time.Duration `envconfig:"AUTH_LATENCY" default:"1s"`
	BcryptCost   int           `envconfig:"AUTH_BCRYPT_COST" default:"10"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Address returns the Redis address in host:port format.
func (r *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MySQLDSN returns the MySQL data source name.
func (k *KVConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		k.MySQLUser, k.MySQLPassword, k.MySQLHost, k.MySQLPort, k.MySQLName)
}

// PostgresDSN returns the PostgreSQL connection string.
func (k *KVConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		k.PostgresUser, k.PostgresPassword, k.PostgresHost, k.PostgresPort, k.PostgresName, k.PostgresSSLMode)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	switch c.KV.Backend {
	case "sqlite", "mysql", "postgres", "redis", "memory":
	default:
		return fmt.Errorf("unknown KV_BACKEND %q", c.KV.Backend)
	}
	switch c.Cache.Type {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("unknown CACHE_TYPE %q", c.Cache.Type)
	}
	if strings.TrimSpace(c.Catalog.BaseURL) == "" {
		return fmt.Errorf("CATALOG_BASE_URL is required")
	}
	if c.Catalog.RateLimit <= 0 {
		return fmt.Errorf("CATALOG_RATE_LIMIT must be positive")
	}
	if c.Auth.Latency < 0 {
		return fmt.Errorf("AUTH_LATENCY must not be negative")
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.App.APIKeys = compact(cfg.App.APIKeys)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
