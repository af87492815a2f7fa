// Package config loads the service configuration from an optional YAML
// file overlaid with environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-guidelines/pkg/validation"
)

// ErrInvalid is wrapped by every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Archive backends.
const (
	ArchiveFile = "file"
	ArchiveS3   = "s3"
)

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Auth       AuthConfig       `yaml:"auth"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Cache      CacheConfig      `yaml:"cache"`
	Events     EventsConfig     `yaml:"events"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Store      StoreConfig      `yaml:"store"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	CORSOrigins     []string      `yaml:"cors_allowed_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type AuthConfig struct {
	Enabled   bool          `yaml:"enabled"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type VocabularyConfig struct {
	// Path of a vocabulary YAML file; empty uses the built-in tables.
	Path string `yaml:"path"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type EventsConfig struct {
	Enabled bool `yaml:"enabled"`
	// URL is the mangos listen address, e.g. tcp://127.0.0.1:40899.
	URL string `yaml:"url"`
}

type ArchiveConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Backend         string `yaml:"backend"`
	Dir             string `yaml:"dir"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

type StoreConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DatabaseURL string `yaml:"database_url"`
	MaxConns    int    `yaml:"max_conns"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    10 << 20,
		},
		Auth:    AuthConfig{TokenTTL: 24 * time.Hour},
		Cache:   CacheConfig{Enabled: true, Size: 256},
		Events:  EventsConfig{URL: "tcp://127.0.0.1:40899"},
		Archive: ArchiveConfig{Backend: ArchiveFile, Dir: "./data/archive", Prefix: "conversions/", Region: "us-east-1"},
		Store:   StoreConfig{MaxConns: 10},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path (if non-empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT %q is not a number", ErrInvalid, v)
		}
		c.Server.Port = port
	}
	str("GUIDELINES_HOST", &c.Server.Host)
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		c.Server.CORSOrigins = splitList(v)
	}

	if v, ok := lookup("JWT_SECRET"); ok && v != "" {
		c.Auth.JWTSecret = v
		c.Auth.Enabled = true
	}

	str("GUIDELINES_VOCABULARY", &c.Vocabulary.Path)

	if v, ok := lookup("GUIDELINES_CACHE_SIZE"); ok && v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: GUIDELINES_CACHE_SIZE %q is not a number", ErrInvalid, v)
		}
		c.Cache.Size = size
		c.Cache.Enabled = size > 0
	}

	if v, ok := lookup("GUIDELINES_EVENTS_URL"); ok && v != "" {
		c.Events.URL = v
		c.Events.Enabled = true
	}

	if v, ok := lookup("GUIDELINES_ARCHIVE_BUCKET"); ok && v != "" {
		c.Archive.Bucket = v
		c.Archive.Backend = ArchiveS3
		c.Archive.Enabled = true
	} else if v, ok := lookup("GUIDELINES_ARCHIVE_DIR"); ok && v != "" {
		c.Archive.Dir = v
		c.Archive.Backend = ArchiveFile
		c.Archive.Enabled = true
	}
	str("GUIDELINES_ARCHIVE_ENDPOINT", &c.Archive.Endpoint)
	str("AWS_REGION", &c.Archive.Region)

	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		c.Store.DatabaseURL = v
		c.Store.Enabled = true
	}

	str("LOG_LEVEL", &c.Logging.Level)
	return nil
}

// Validate checks every enabled section.
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("config")
	cv.RangeInt("server.port", c.Server.Port, 1, 65535).
		MinDuration("server.read_timeout", c.Server.ReadTimeout, time.Second).
		MinDuration("server.write_timeout", c.Server.WriteTimeout, time.Second).
		MinDuration("server.shutdown_timeout", c.Server.ShutdownTimeout, time.Second).
		Custom("server.max_body_bytes", func() error {
			if c.Server.MaxBodyBytes <= 0 {
				return errors.New("must be positive")
			}
			return nil
		}).
		OneOf("logging.level", strings.ToLower(c.Logging.Level), "debug", "info", "warn", "warning", "error").
		When(c.Auth.Enabled, func(cv *validation.ConfigValidator) {
			cv.MinLength("auth.jwt_secret", c.Auth.JWTSecret, 32).
				MinDuration("auth.token_ttl", c.Auth.TokenTTL, time.Minute)
		}).
		When(c.Cache.Enabled, func(cv *validation.ConfigValidator) {
			cv.Positive("cache.size", c.Cache.Size)
		}).
		When(c.Events.Enabled, func(cv *validation.ConfigValidator) {
			cv.Required("events.url", c.Events.URL)
		}).
		When(c.Archive.Enabled, func(cv *validation.ConfigValidator) {
			cv.OneOf("archive.backend", c.Archive.Backend, ArchiveFile, ArchiveS3).
				When(c.Archive.Backend == ArchiveFile, func(cv *validation.ConfigValidator) {
					cv.Required("archive.dir", c.Archive.Dir)
				}).
				When(c.Archive.Backend == ArchiveS3, func(cv *validation.ConfigValidator) {
					cv.Required("archive.bucket", c.Archive.Bucket).
						Required("archive.region", c.Archive.Region).
						When(c.Archive.Endpoint != "", func(cv *validation.ConfigValidator) {
							cv.URL("archive.endpoint", c.Archive.Endpoint)
						})
				})
		}).
		When(c.Store.Enabled, func(cv *validation.ConfigValidator) {
			cv.Required("store.database_url", c.Store.DatabaseURL).
				RangeInt("store.max_conns", c.Store.MaxConns, 1, 1000)
		})

	if err := cv.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
