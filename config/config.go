// Package config loads the task manager configuration.
//
// Values start from Default, are overlaid by an optional YAML file and then
// by environment variables. The file path comes from the --config flag or
// the TASK_MANAGER_CONFIG environment variable.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "TASK_MANAGER_CONFIG"

// RateLimitKeyPrefix is the Redis key prefix of the rate limiter windows.
const RateLimitKeyPrefix = "ratelimit:"

// Storage drivers for tasks and users.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config is the full application configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// ShutdownTimeout bounds graceful shutdown of all modules.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr       string `yaml:"addr"`
	CORSOrigin string `yaml:"cors_origin"`

	// ProxyHeader is trusted for the client IP when set, e.g. X-Forwarded-For.
	ProxyHeader string `yaml:"proxy_header"`
}

// AuthConfig configures tokens and the user store.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	Issuer          string        `yaml:"issuer"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	AdminEmails     []string      `yaml:"admin_emails"`
	BcryptCost      int           `yaml:"bcrypt_cost"`

	// DBPath is the SQLite file for users when the sqlite driver is used.
	DBPath string `yaml:"db_path"`
}

// StorageConfig selects the task and user storage backend.
type StorageConfig struct {
	Driver        string `yaml:"driver"`
	TaskDBPath    string `yaml:"task_db_path"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

// CatalogConfig configures the storefront catalog. The catalog is disabled
// when DatabaseURL is empty.
type CatalogConfig struct {
	DatabaseURL         string `yaml:"database_url"`
	LowStockThreshold   int    `yaml:"low_stock_threshold"`
	RecommendationLimit int    `yaml:"recommendation_limit"`
}

// Enabled reports whether the catalog should be started.
func (c CatalogConfig) Enabled() bool {
	return c.DatabaseURL != ""
}

// RedisConfig configures the cache and rate limiter backend. Redis is
// disabled when Addr is empty.
type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	CachePrefix string        `yaml:"cache_prefix"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// Enabled reports whether Redis is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// RateLimitConfig limits the credential endpoints per client IP.
type RateLimitConfig struct {
	AuthRequests int           `yaml:"auth_requests"`
	Window       time.Duration `yaml:"window"`
}

// Default returns the default configuration: SQLite storage on the working
// directory, no catalog and no Redis.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:       ":5000",
			CORSOrigin: "*",
		},
		Auth: AuthConfig{
			Issuer:          "task-manager",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			DBPath:          "users.db",
		},
		Storage: StorageConfig{
			Driver:        DriverSQLite,
			TaskDBPath:    "tasks.db",
			MongoDatabase: "task_manager",
		},
		Catalog: CatalogConfig{
			LowStockThreshold:   15,
			RecommendationLimit: 6,
		},
		Redis: RedisConfig{
			CachePrefix: "catalog:",
			CacheTTL:    5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			AuthRequests: 10,
			Window:       time.Minute,
		},
		ShutdownTimeout: 30 * time.Second,
	}
}

// Load builds the configuration from path (optional), then the environment,
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile returns the defaults overlaid with the YAML file at path. Keys
// missing from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto c.
func (c *Config) ApplyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.HTTP.Addr = ":" + port
	}
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)
	c.HTTP.CORSOrigin = getEnv("CORS_ORIGIN", c.HTTP.CORSOrigin)
	c.HTTP.ProxyHeader = getEnv("PROXY_HEADER", c.HTTP.ProxyHeader)

	c.Auth.JWTSecret = getEnv("JWT_SECRET_KEY", c.Auth.JWTSecret)
	c.Auth.Issuer = getEnv("JWT_ISSUER", c.Auth.Issuer)
	c.Auth.AccessTokenTTL = getEnvDuration("ACCESS_TOKEN_TTL", c.Auth.AccessTokenTTL)
	c.Auth.RefreshTokenTTL = getEnvDuration("REFRESH_TOKEN_TTL", c.Auth.RefreshTokenTTL)
	c.Auth.BcryptCost = getEnvInt("BCRYPT_COST", c.Auth.BcryptCost)
	c.Auth.DBPath = getEnv("USERS_DB_PATH", c.Auth.DBPath)
	if emails := os.Getenv("ADMIN_EMAILS"); emails != "" {
		c.Auth.AdminEmails = splitList(emails)
	}

	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.TaskDBPath = getEnv("TASKS_DB_PATH", c.Storage.TaskDBPath)
	c.Storage.MongoURI = getEnv("MONGO_URI", c.Storage.MongoURI)
	c.Storage.MongoDatabase = getEnv("MONGO_DATABASE", c.Storage.MongoDatabase)

	c.Catalog.DatabaseURL = getEnv("DATABASE_URL", c.Catalog.DatabaseURL)
	c.Catalog.LowStockThreshold = getEnvInt("LOW_STOCK_THRESHOLD", c.Catalog.LowStockThreshold)
	c.Catalog.RecommendationLimit = getEnvInt("RECOMMENDATION_LIMIT", c.Catalog.RecommendationLimit)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.CachePrefix = getEnv("CACHE_PREFIX", c.Redis.CachePrefix)
	c.Redis.CacheTTL = getEnvDuration("CACHE_TTL", c.Redis.CacheTTL)

	c.RateLimit.AuthRequests = getEnvInt("RATE_LIMIT_REQUESTS", c.RateLimit.AuthRequests)
	c.RateLimit.Window = getEnvDuration("RATE_LIMIT_WINDOW", c.RateLimit.Window)

	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, fmt.Errorf("http.addr is required"))
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.TaskDBPath == "" {
			errs = append(errs, fmt.Errorf("storage.task_db_path is required for the sqlite driver"))
		}
		if c.Auth.DBPath == "" {
			errs = append(errs, fmt.Errorf("auth.db_path is required for the sqlite driver"))
		}
	case DriverMongo:
		if c.Storage.MongoURI == "" {
			errs = append(errs, fmt.Errorf("storage.mongo_uri is required for the mongo driver"))
		}
		if c.Storage.MongoDatabase == "" {
			errs = append(errs, fmt.Errorf("storage.mongo_database is required for the mongo driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be one of: %s, %s", DriverSQLite, DriverMongo))
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"auth.access_token_ttl", c.Auth.AccessTokenTTL},
		{"auth.refresh_token_ttl", c.Auth.RefreshTokenTTL},
		{"redis.cache_ttl", c.Redis.CacheTTL},
		{"rate_limit.window", c.RateLimit.Window},
		{"shutdown_timeout", c.ShutdownTimeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", p.name))
		}
	}

	if c.RateLimit.AuthRequests <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.auth_requests must be positive"))
	}
	if c.Catalog.LowStockThreshold < 0 {
		errs = append(errs, fmt.Errorf("catalog.low_stock_threshold must not be negative"))
	}

	// Catalog invalidation deletes every key under the cache prefix.
	if c.Redis.Enabled() {
		switch {
		case c.Redis.CachePrefix == "":
			errs = append(errs, fmt.Errorf("redis.cache_prefix is required when redis is enabled"))
		case strings.HasPrefix(RateLimitKeyPrefix, c.Redis.CachePrefix):
			errs = append(errs, fmt.Errorf("redis.cache_prefix %q overlaps the rate limiter keys %q", c.Redis.CachePrefix, RateLimitKeyPrefix))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv returns environment variable or default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
