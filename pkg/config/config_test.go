package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeConfigFile(t, `
env: production
port: "9090"
migrations_path: db/migrations
source:
  host: sqlserver.internal
  port: 1433
  user: etl_reader
  database: operations
warehouse:
  host: pg.internal
  port: 5432
  user: warehouse
  database: delivery_dw
  ssl_mode: require
  max_connections: 20
connect:
  max_attempts: 3
  delay_seconds: 2
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SOURCE_PASSWORD", "source-secret")
	t.Setenv("PGPASSWORD", "pg-secret")

	cfg, err := Load("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "db/migrations", cfg.MigrationsPath)
	assert.Equal(t, "sqlserver.internal", cfg.Source.Host)
	assert.Equal(t, "require", cfg.Warehouse.SSLMode)
	assert.Equal(t, int32(20), cfg.Warehouse.MaxConnections)
	assert.Equal(t, 3, cfg.Connect.MaxAttempts)

	// Secrets come from the environment only.
	assert.Equal(t, "source-secret", cfg.Source.Password)
	assert.Equal(t, "pg-secret", cfg.Warehouse.Password)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfigFile(t, `
env: local
warehouse:
  host: yaml-host
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PGHOST", "env-host")

	cfg, err := Load("dev")
	require.NoError(t, err)
	assert.Equal(t, "env-host", cfg.Warehouse.Host)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 1433, cfg.Source.Port)
	assert.Equal(t, "delivery_dw", cfg.Warehouse.Database)
	assert.Equal(t, 5, cfg.Connect.MaxAttempts)
	assert.Equal(t, 5, cfg.Connect.DelaySeconds)
}

func TestLoad_RejectsZeroAttempts(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CONNECT_MAX_ATTEMPTS", "0")

	_, err := Load("dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_attempts")
}

func TestSourceConnectionString(t *testing.T) {
	c := SourceConfig{
		Host:     "localhost",
		Port:     1433,
		User:     "sa",
		Password: "p@ss/word",
		Database: "operations",
	}

	got := c.ConnectionString()
	assert.Contains(t, got, "sqlserver://")
	assert.Contains(t, got, "database=operations")
	// Password is URL-escaped, never raw.
	assert.NotContains(t, got, "p@ss/word")
}

func TestWarehouseConnectionString(t *testing.T) {
	c := WarehouseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "warehouse",
		Password: "secret",
		Database: "delivery_dw",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=warehouse password=secret dbname=delivery_dw sslmode=disable",
		c.ConnectionString())
}
