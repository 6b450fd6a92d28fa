// Package config provides configuration types, defaults and validation for signup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/tracing"
)

// Backend names.
const (
	BackendRemote = "remote"
	BackendSQLite = "sqlite"
)

// DefaultConfigPath is where a config is written when none is found.
const DefaultConfigPath = ".signup/config.yaml"

// Config holds all configuration options for signup.
type Config struct {
	Backend         string         `mapstructure:"backend"`
	Table           string         `mapstructure:"table"`
	PlaceholderData string         `mapstructure:"placeholder_data"`
	Cache           CacheConfig    `mapstructure:"cache"`
	Remote          RemoteConfig   `mapstructure:"remote"`
	SQLite          SQLiteConfig   `mapstructure:"sqlite"`
	Tracing         tracing.Config `mapstructure:"tracing"`
}

// CacheConfig controls the registry read cache.
type CacheConfig struct {
	// TTL bounds how long a fetched table is served from memory. Zero means no expiry;
	// the cache is still cleared after every insert.
	TTL      time.Duration `mapstructure:"ttl"`
	Disabled bool          `mapstructure:"disabled"`
}

// RemoteConfig configures the hosted table service.
// URL and Key are normally filled from the secret store.
type RemoteConfig struct {
	URL     string        `mapstructure:"url"`
	Key     string        `mapstructure:"key"`
	Schema  string        `mapstructure:"schema"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 = no timeout
}

// SQLiteConfig configures the local table backend.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Backend:         BackendRemote,
		Table:           "my_first_table",
		PlaceholderData: "hieiiierl",
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		Remote: RemoteConfig{
			Schema: "public",
		},
		SQLite: SQLiteConfig{
			Path: ".signup/registry.db",
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendRemote:
		if c.Remote.URL == "" {
			return fmt.Errorf("remote.url is required for the remote backend (set %s)", SecretURL)
		}
		if c.Remote.Key == "" {
			return fmt.Errorf("remote.key is required for the remote backend (set %s)", SecretKey)
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendRemote, BackendSQLite, c.Backend)
	}

	if strings.TrimSpace(c.Table) == "" {
		return fmt.Errorf("table must not be empty")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout must not be negative, got %s", c.Remote.Timeout)
	}

	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}

	if t.Enabled {
		if t.Exporter == "file" && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == "otlp" && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the commented YAML written by WriteDefaultConfig.
func DefaultConfigTemplate() string {
	return `# signup configuration

# Where registrants are stored: "remote" (hosted table) or "sqlite" (local file)
backend: remote

# Table holding the registrants
table: my_first_table

# Payload stored alongside every new name
placeholder_data: hieiiierl

cache:
  # How long a fetched table is reused. 0 keeps it until the next insert.
  ttl: 10m
  disabled: false

remote:
  # url and key are read from SUPABASE_URL / SUPABASE_KEY (env or secrets file)
  url: ""
  key: ""
  schema: public
  # 0s disables the request timeout
  timeout: 0s

sqlite:
  path: .signup/registry.db

tracing:
  enabled: false
  exporter: stdout    # none, stdout, file, otlp
  file_path: ""
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: signup
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
