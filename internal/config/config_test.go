package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/config/configloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
server:
  port: 8080
  timeout:
    read: 5s
    write: 5s
    idle: 30s
    readHeader: 1s
database:
  driver: postgres
  url: postgres://user:secret@db:5432/catalog
  timeout: 3s
grpc:
  port: "50051"
filestore:
  local:
    root: /tmp/uploads
resilience:
  retry:
    maxattempts: 3
    maxbackoff: 1s
  circuitbreaker:
    consecutivefailures: 5
    errorratepercent: 50
    opentimeout: 10s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaultsAndEnvOverrides(t *testing.T) {
	// given
	path := writeConfig(t, minimalYAML)
	t.Setenv("CATALOG_LOG_LEVEL", "debug")
	t.Setenv("CATALOG_CACHE_ENABLED", "true")
	t.Setenv("CATALOG_CACHE_ADDR", "redis:6379")
	t.Setenv("CATALOG_CACHE_TTL", "30s")

	// when
	cfg, err := configloader.LoadFrom[*Config]("catalog", path, filepath.Join(t.TempDir(), ".env"))

	// then
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, config.FileStoreLocal, cfg.FileStore.Driver)
	assert.Equal(t, 10*time.Second, cfg.Shutdown.Timeout)
	assert.Equal(t, uint(3), cfg.Resilience.Retry.MaxAttempts)
}

func TestLoad_RejectsInvalidSection(t *testing.T) {
	// given
	path := writeConfig(t, minimalYAML)
	t.Setenv("CATALOG_NATS_ENABLED", "true")

	// when
	_, err := configloader.LoadFrom[*Config]("catalog", path, filepath.Join(t.TempDir(), ".env"))

	// then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nats")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.HTTPServer.Port = 8080
		c.HTTPServer.Timeout.Read = time.Second
		c.HTTPServer.Timeout.Write = time.Second
		c.HTTPServer.Timeout.Idle = time.Second
		c.HTTPServer.Timeout.ReadHeader = time.Second
		c.Database = config.DatabaseConfig{Driver: config.DriverMemory}
		c.GRPC.Port = "50051"
		c.FileStore.Local.Root = "/tmp"
		c.Resilience.Retry = config.RetryConfig{MaxAttempts: 1, MaxBackoff: time.Second}
		c.Resilience.CircuitBreaker = config.CircuitBreakerConfig{ConsecutiveFailures: 1, OpenTimeout: time.Second}
		return c
	}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.HTTPServer.Port = 0 }, wantErr: "server"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "database"},
		{name: "postgres without url", mutate: func(c *Config) { c.Database.Driver = config.DriverPostgres }, wantErr: "database"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: "log"},
		{name: "missing grpc port", mutate: func(c *Config) { c.GRPC.Port = "" }, wantErr: "grpc"},
		{name: "negative shutdown", mutate: func(c *Config) { c.Shutdown.Timeout = -time.Second }, wantErr: "shutdown"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.FileStore.Driver = config.FileStoreS3 }, wantErr: "filestore"},
		{name: "cache without ttl", mutate: func(c *Config) { c.Cache = config.CacheConfig{Enabled: true, Addr: "redis:6379"} }, wantErr: "cache"},
		{name: "telemetry without endpoint", mutate: func(c *Config) { c.Telemetry.Enabled = true }, wantErr: "telemetry"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			c := valid()
			tc.mutate(c)

			// when
			err := c.Validate()

			// then
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfig_StringMasksCredentials(t *testing.T) {
	// given
	c := &Config{Database: config.DatabaseConfig{URL: "postgres://user:secret@db:5432/catalog"}}

	// when
	s := c.String()

	// then
	assert.NotContains(t, s, "secret")
	assert.Contains(t, s, "****@db:5432/catalog")
}
