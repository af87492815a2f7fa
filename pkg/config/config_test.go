package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.True(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Auth.Enabled)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":                      "9090",
		"JWT_SECRET":                strings.Repeat("s", 32),
		"DATABASE_URL":              "postgres://localhost/guidelines",
		"GUIDELINES_ARCHIVE_BUCKET": "conversions",
		"GUIDELINES_CACHE_SIZE":     "0",
		"CORS_ALLOWED_ORIGINS":      "https://a.example, ,https://b.example",
		"LOG_LEVEL":                 "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Auth.Enabled)
	assert.True(t, cfg.Store.Enabled)
	assert.Equal(t, ArchiveS3, cfg.Archive.Backend)
	assert.True(t, cfg.Archive.Enabled)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_BadPort(t *testing.T) {
	err := Default().ApplyEnv(envMap(map[string]string{"PORT": "http"}))
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "port", mutate: func(c *Config) { c.Server.Port = 0 }, field: "server.port"},
		{name: "short secret", mutate: func(c *Config) { c.Auth.Enabled = true; c.Auth.JWTSecret = "short" }, field: "auth.jwt_secret"},
		{name: "cache size", mutate: func(c *Config) { c.Cache.Size = 0 }, field: "cache.size"},
		{name: "archive bucket", mutate: func(c *Config) { c.Archive.Enabled = true; c.Archive.Backend = ArchiveS3 }, field: "archive.bucket"},
		{name: "archive backend", mutate: func(c *Config) { c.Archive.Enabled = true; c.Archive.Backend = "ftp" }, field: "archive.backend"},
		{name: "archive endpoint", mutate: func(c *Config) {
			c.Archive.Enabled, c.Archive.Backend, c.Archive.Bucket, c.Archive.Endpoint = true, ArchiveS3, "b", "minio"
		}, field: "archive.endpoint"},
		{name: "store url", mutate: func(c *Config) { c.Store.Enabled = true }, field: "store.database_url"},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, field: "logging.level"},
		{name: "body limit", mutate: func(c *Config) { c.Server.MaxBodyBytes = 0 }, field: "server.max_body_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_SECRET", "DATABASE_URL", "GUIDELINES_CACHE_SIZE", "GUIDELINES_ARCHIVE_BUCKET", "GUIDELINES_ARCHIVE_DIR", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "guidelines.yaml")
	content := `
server:
  port: 7070
  read_timeout: 5s
cache:
  size: 32
archive:
  enabled: true
  backend: file
  dir: /tmp/archive
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 32, cfg.Cache.Size)
	assert.Equal(t, "/tmp/archive", cfg.Archive.Dir)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}
