package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all settings of the verben service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Pagination PaginationConfig `yaml:"pagination"`
	Seed       SeedConfig       `yaml:"seed"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	CookieSecure    bool     `yaml:"cookie_secure"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // pgx, sqlite3
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	AccessSecret  string `yaml:"access_secret"`
	RefreshSecret string `yaml:"refresh_secret"`
	Issuer        string `yaml:"issuer"`
	AccessTTL     string `yaml:"access_ttl"`
	RefreshTTL    string `yaml:"refresh_ttl"`
}

type PaginationConfig struct {
	DefaultPerPage int `yaml:"default_per_page"`
	MaxPerPage     int `yaml:"max_per_page"`
}

type SeedConfig struct {
	Dir     string `yaml:"dir"`
	Workers int    `yaml:"workers"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: "10s",
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "file:verben.db?_foreign_keys=on",
		},
		Auth: AuthConfig{
			Issuer:     "verben",
			AccessTTL:  "15m",
			RefreshTTL: "720h",
		},
		Pagination: PaginationConfig{
			DefaultPerPage: 20,
			MaxPerPage:     100,
		},
		Seed: SeedConfig{
			Dir:     "data/seed",
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error.
// Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	} else if dsn := postgresDSNFromEnv(); dsn != "" {
		c.Database.Driver = "pgx"
		c.Database.DSN = dsn
	}
	if v := os.Getenv("JWT_ACCESS_SECRET"); v != "" {
		c.Auth.AccessSecret = v
	}
	if v := os.Getenv("JWT_REFRESH_SECRET"); v != "" {
		c.Auth.RefreshSecret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		c.Auth.Issuer = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SEED_DIR"); v != "" {
		c.Seed.Dir = v
	}
}

// postgresDSNFromEnv assembles a connection string from the POSTGRES_* variables.
func postgresDSNFromEnv() string {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	if port := os.Getenv("POSTGRES_PORT"); port != "" {
		host += ":" + port
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(os.Getenv("POSTGRES_USERNAME"), os.Getenv("POSTGRES_PASSWORD")),
		Host:   host,
		Path:   "/" + os.Getenv("POSTGRES_DBNAME"),
	}
	return u.String()
}

// Validate reports the first setting the service cannot start with.
func (c *Config) Validate() error {
	if err := c.ValidateStorage(); err != nil {
		return err
	}
	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" {
		return errors.New("auth: access_secret and refresh_secret must be set")
	}
	for name, value := range map[string]string{
		"auth.access_ttl":         c.Auth.AccessTTL,
		"auth.refresh_ttl":        c.Auth.RefreshTTL,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s: must be positive", name)
		}
	}
	if c.Pagination.DefaultPerPage <= 0 || c.Pagination.MaxPerPage <= 0 {
		return errors.New("pagination: page sizes must be positive")
	}
	if c.Pagination.DefaultPerPage > c.Pagination.MaxPerPage {
		return errors.New("pagination: default_per_page exceeds max_per_page")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format: unsupported format %q", c.Logging.Format)
	}
	return nil
}

// ValidateStorage checks only what commands that never serve HTTP need.
func (c *Config) ValidateStorage() error {
	switch c.Database.Driver {
	case "pgx", "postgres", "sqlite3", "sqlite":
	default:
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn: must be set")
	}
	return nil
}

func duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetAccessTTL returns the access token lifetime as a duration.
func (c *Config) GetAccessTTL() time.Duration {
	return duration(c.Auth.AccessTTL, 15*time.Minute)
}

// GetRefreshTTL returns the refresh token lifetime as a duration.
func (c *Config) GetRefreshTTL() time.Duration {
	return duration(c.Auth.RefreshTTL, 30*24*time.Hour)
}

// GetShutdownTimeout returns how long serve waits for in-flight requests.
func (c *Config) GetShutdownTimeout() time.Duration {
	return duration(c.Server.ShutdownTimeout, 10*time.Second)
}

// GetSeedWorkers returns the importer concurrency, at least one.
func (c *Config) GetSeedWorkers() int {
	if c.Seed.Workers < 1 {
		return 1
	}
	return c.Seed.Workers
}
