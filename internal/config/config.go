package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	pkglogger "github.com/tegami/tegami-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	Storage   StorageConfig   `yaml:"storage"`
	Penpal    PenpalConfig    `yaml:"penpal"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port            int    `yaml:"port" env:"PORT"`
	Env             string `yaml:"env" env:"APP_ENV"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"` // seconds
}

// DatabaseConfig relational store settings
type DatabaseConfig struct {
	Driver          string `yaml:"driver" env:"DB_DRIVER"` // postgres | mysql
	Host            string `yaml:"host" env:"DB_HOST"`
	Port            int    `yaml:"port" env:"DB_PORT"`
	User            string `yaml:"user" env:"DB_USER"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"` // seconds
}

// RedisConfig cache / pub-sub settings
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
	Host     string `yaml:"host" env:"REDIS_HOST"`
	Port     int    `yaml:"port" env:"REDIS_PORT"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	PoolSize int    `yaml:"pool_size" env:"REDIS_POOL_SIZE"`
}

// AuthConfig bearer token verification settings
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	Audience  string `yaml:"audience" env:"AUTH_AUDIENCE"`
	Required  bool   `yaml:"required" env:"AUTH_REQUIRED"`
}

// CORSConfig allowed origins (comma separated)
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins" env:"CORS_ALLOW_ORIGINS"`
}

// StorageConfig S3-compatible object store for audio blobs
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled" env:"STORAGE_ENABLED"`
	Endpoint        string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
	Region          string `yaml:"region" env:"STORAGE_REGION"`
	AccessKeyID     string `yaml:"access_key_id" env:"STORAGE_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"STORAGE_SECRET_ACCESS_KEY"`
	Bucket          string `yaml:"bucket" env:"STORAGE_BUCKET"`
	PublicURL       string `yaml:"public_url" env:"STORAGE_PUBLIC_URL"`
	BasePath        string `yaml:"base_path" env:"STORAGE_BASE_PATH"`
	ForcePathStyle  bool   `yaml:"force_path_style" env:"STORAGE_FORCE_PATH_STYLE"`
	MaxUploadBytes  int64  `yaml:"max_upload_bytes" env:"STORAGE_MAX_UPLOAD_BYTES"`
}

// PenpalConfig letter exchange rules
type PenpalConfig struct {
	// AllowUnconnected lets users send penpal letters without an accepted connection.
	AllowUnconnected bool `yaml:"allow_unconnected" env:"PENPAL_ALLOW_UNCONNECTED"`
	// ReconcileInterval is how often in-transit letters are promoted to delivered (seconds).
	ReconcileInterval int `yaml:"reconcile_interval_seconds" env:"PENPAL_RECONCILE_INTERVAL"`
}

// RateLimitConfig per-client request budget
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" env:"RATE_LIMIT_RPM"`
}

// Load reads the YAML file at path (missing file is allowed), applies
// environment overrides and fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		pkglogger.Warn("config file %s not found, using environment and defaults", path)
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Server.Env == "" {
		c.Server.Env = "local"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		if c.Database.Driver == "mysql" {
			c.Database.Port = 3306
		} else {
			c.Database.Port = 5432
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}

	if c.CORS.AllowOrigins == "" {
		c.CORS.AllowOrigins = "http://localhost:5173"
	}

	if c.Storage.MaxUploadBytes == 0 {
		c.Storage.MaxUploadBytes = 50 * 1024 * 1024
	}

	if c.Penpal.ReconcileInterval == 0 {
		c.Penpal.ReconcileInterval = 15
	}

	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 120
	}
}

// Validate checks settings that have no sensible default
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.Required && c.Auth.JWTSecret == "" {
		return errors.New("auth.required needs auth.jwt_secret")
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return errors.New("storage.enabled needs storage.bucket")
	}
	return nil
}

// Origins splits AllowOrigins on commas, dropping blanks
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// IsDevelopment reports whether the server runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "local" || c.Server.Env == "development" || c.Server.Env == "dev"
}

// RequirePenpalConnection reports whether sends need an accepted connection
func (c *Config) RequirePenpalConnection() bool {
	return !c.Penpal.AllowUnconnected
}

// ReconcileEvery returns the delivery reconciler period
func (c *Config) ReconcileEvery() time.Duration {
	return time.Duration(c.Penpal.ReconcileInterval) * time.Second
}

// GetDSN builds the driver-specific DSN
func (d DatabaseConfig) GetDSN() string {
	if d.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.DBName)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogResolved prints the effective configuration without secrets
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Str("db_host", cfg.Database.Host).
		Int("db_port", cfg.Database.Port).
		Str("db_name", cfg.Database.DBName).
		Bool("redis", cfg.Redis.Enabled).
		Bool("storage", cfg.Storage.Enabled).
		Bool("auth_required", cfg.Auth.Required).
		Bool("auth_tokens", cfg.Auth.JWTSecret != "").
		Bool("penpal_require_connection", cfg.RequirePenpalConnection()).
		Int("reconcile_interval_s", cfg.Penpal.ReconcileInterval).
		Msg("config resolved")
}
