package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the warehouse ETL.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Port    string `yaml:"port" env:"PORT" env-default:"8080"`
	Version string `yaml:"-"` // Set at load time, not from config

	// MigrationsPath is the directory holding warehouse schema migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// Source is the operational store the pipeline extracts from (read-only).
	Source SourceConfig `yaml:"source"`

	// Warehouse is the PostgreSQL star-schema target.
	Warehouse WarehouseConfig `yaml:"warehouse"`

	// Connect controls connection-acquisition retry behavior.
	Connect ConnectConfig `yaml:"connect"`
}

// SourceConfig holds SQL Server connection configuration for the
// operational store.
type SourceConfig struct {
	Host     string `yaml:"host" env:"SOURCE_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"SOURCE_PORT" env-default:"1433"`
	User     string `yaml:"user" env:"SOURCE_USER" env-default:"sa"`
	Password string `yaml:"-" env:"SOURCE_PASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"SOURCE_DATABASE" env-default:"operations"`
}

// ConnectionString returns a sqlserver:// connection URL.
func (c *SourceConfig) ConnectionString() string {
	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		RawQuery: url.Values{
			"database": {c.Database},
		}.Encode(),
	}
	return u.String()
}

// WarehouseConfig holds PostgreSQL warehouse configuration.
type WarehouseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"warehouse"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"delivery_dw"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// ConnectionString returns a PostgreSQL connection string.
func (c *WarehouseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// ConnectConfig holds connection-acquisition retry settings. Only connection
// setup is retried; load transactions are fail-fast and rely on the next
// scheduled run for recovery.
type ConnectConfig struct {
	MaxAttempts  int `yaml:"max_attempts" env:"CONNECT_MAX_ATTEMPTS" env-default:"5"`
	DelaySeconds int `yaml:"delay_seconds" env:"CONNECT_DELAY_SECONDS" env-default:"5"`
}

// Delay returns the fixed delay between connection attempts.
func (c ConnectConfig) Delay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// Load reads configuration from config.yaml with environment variable
// overrides. When no config file exists the environment alone is used, so a
// container deployment needs no file at all. The version parameter is
// injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if cfg.Connect.MaxAttempts < 1 {
		return nil, fmt.Errorf("connect.max_attempts must be at least 1, got %d", cfg.Connect.MaxAttempts)
	}

	return cfg, nil
}
