// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Database  DatabaseConfig  `yaml:"database"`
	Audit     AuditConfig     `yaml:"audit"`
	Solver    SolverConfig    `yaml:"solver"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RateLimitConfig configures per-client rate limiting.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled"`

	// KeyedMultiplier raises the limit for clients presenting a
	// configured API key.
	KeyedMultiplier int `yaml:"keyed_multiplier"`

	// Limits maps calculator names to per-minute budgets. Calculators
	// absent from the map are unlimited.
	Limits map[string]EndpointLimit `yaml:"limits"`

	// CleanupInterval controls how often expired windows are purged.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// EndpointLimit is one calculator's rate budget.
type EndpointLimit struct {
	PerMinute int `yaml:"per_minute"`
}

// DatabaseConfig configures the backing stores.
type DatabaseConfig struct {
	Driver string      `yaml:"driver"` // "sqlite", "memory", or "redis"
	DSN    string      `yaml:"dsn"`
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis limiter backend. The audit store
// stays on sqlite; redis only carries the rate limit windows.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// AuditConfig configures usage recording.
type AuditConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// SolverConfig configures the AI calculator gateway.
type SolverConfig struct {
	GatewayURL   string        `yaml:"gateway_url"`
	APIKey       string        `yaml:"api_key,omitempty"`
	Model        string        `yaml:"model"`
	Timeout      time.Duration `yaml:"timeout"`
	GatewayRPS   float64       `yaml:"gateway_rps"`
	GatewayBurst int           `yaml:"gateway_burst"`
}

// AuthConfig configures API keys and the admin token.
type AuthConfig struct {
	// Keys lists client API keys as bcrypt hashes. The raw key is
	// never stored.
	Keys []KeyConfig `yaml:"keys"`

	// JWTSecret signs admin bearer tokens. Empty means a random
	// per-process secret (tokens do not survive restarts).
	JWTSecret string `yaml:"jwt_secret,omitempty"`

	TokenExpiration time.Duration `yaml:"token_expiration"`
}

// KeyConfig is one configured API key.
type KeyConfig struct {
	ID   string `yaml:"id"`
	Hash string `yaml:"hash"` // bcrypt hash of the key material
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand ${VAR} references. The bare $name form is left alone so
	// bcrypt hashes ($2a$...) survive.
	data = expandEnv(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// Useful for container deployments where no config file is mounted.
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falls back to environment
// variables, and finally to built-in defaults.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies CALCD_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CALCD_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("CALCD_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CALCD_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("CALCD_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	if v := os.Getenv("CALCD_RATELIMIT_ENABLED"); v != "" {
		cfg.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("CALCD_RATELIMIT_KEYED_MULTIPLIER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.KeyedMultiplier = n
		}
	}

	if v := os.Getenv("CALCD_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("CALCD_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("CALCD_REDIS_ADDR"); v != "" {
		cfg.Database.Redis.Addr = v
	}
	if v := os.Getenv("CALCD_REDIS_PASSWORD"); v != "" {
		cfg.Database.Redis.Password = v
	}

	if v := os.Getenv("CALCD_SOLVER_GATEWAY_URL"); v != "" {
		cfg.Solver.GatewayURL = v
	}
	if v := os.Getenv("CALCD_SOLVER_API_KEY"); v != "" {
		cfg.Solver.APIKey = v
	}
	if v := os.Getenv("CALCD_SOLVER_MODEL"); v != "" {
		cfg.Solver.Model = v
	}

	if v := os.Getenv("CALCD_AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}

	if v := os.Getenv("CALCD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CALCD_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("CALCD_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
}

// envRef matches ${NAME} environment references.
var envRef = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}`)

func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		name := string(ref[2 : len(ref)-1])
		return []byte(os.Getenv(name))
	})
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

// DefaultLimits are the per-minute budgets applied when the config does
// not name any.
func DefaultLimits() map[string]EndpointLimit {
	return map[string]EndpointLimit{
		"convert":       {PerMinute: 60},
		"calorie":       {PerMinute: 60},
		"ai-calculator": {PerMinute: 10},
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.RateLimit.KeyedMultiplier == 0 {
		cfg.RateLimit.KeyedMultiplier = 1
	}
	if cfg.RateLimit.Limits == nil {
		cfg.RateLimit.Limits = DefaultLimits()
	}
	if cfg.RateLimit.CleanupInterval == 0 {
		cfg.RateLimit.CleanupInterval = 5 * time.Minute
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "calcd.db"
	}

	if cfg.Audit.BatchSize == 0 {
		cfg.Audit.BatchSize = 100
	}
	if cfg.Audit.FlushInterval == 0 {
		cfg.Audit.FlushInterval = 5 * time.Second
	}

	if cfg.Solver.Timeout == 0 {
		cfg.Solver.Timeout = 30 * time.Second
	}
	if cfg.Solver.GatewayRPS == 0 {
		cfg.Solver.GatewayRPS = 1
	}
	if cfg.Solver.GatewayBurst == 0 {
		cfg.Solver.GatewayBurst = 3
	}

	if cfg.Auth.TokenExpiration == 0 {
		cfg.Auth.TokenExpiration = 24 * time.Hour
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validate(cfg *Config) error {
	validDrivers := map[string]bool{"sqlite": true, "memory": true, "redis": true}
	if !validDrivers[cfg.Database.Driver] {
		return fmt.Errorf("database.driver must be 'sqlite', 'memory', or 'redis', got %q", cfg.Database.Driver)
	}
	if cfg.Database.Driver == "redis" && cfg.Database.Redis.Addr == "" {
		return fmt.Errorf("database.redis.addr is required when database.driver is 'redis'")
	}

	if cfg.RateLimit.KeyedMultiplier < 1 {
		return fmt.Errorf("rate_limit.keyed_multiplier must be >= 1, got %d", cfg.RateLimit.KeyedMultiplier)
	}
	for name, limit := range cfg.RateLimit.Limits {
		if limit.PerMinute < 1 {
			return fmt.Errorf("rate_limit.limits[%s].per_minute must be >= 1, got %d", name, limit.PerMinute)
		}
	}

	for i, key := range cfg.Auth.Keys {
		if key.ID == "" {
			return fmt.Errorf("auth.keys[%d].id is required", i)
		}
		if !strings.HasPrefix(key.Hash, "$2") {
			return fmt.Errorf("auth.keys[%d].hash must be a bcrypt hash", i)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}

	return nil
}
