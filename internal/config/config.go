// Package config provides configuration types for the Shopfront gateway.
package config

import (
	"os"
	"path/filepath"
)

// Config is the top-level configuration for the Shopfront gateway.
type Config struct {
	// Server configures the HTTP server listener.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Backend configures the remote commerce API.
	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`

	// State configures where the client state (cart + credential) persists.
	State StateConfig `yaml:"state" mapstructure:"state"`

	// Uploads configures local product image uploads.
	Uploads UploadsConfig `yaml:"uploads" mapstructure:"uploads"`

	// Tracing configures the opt-in OpenTelemetry trace export.
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`

	// DevMode enables development features (verbose logging, etc).
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// HTTPAddr is the address to listen on (e.g., "127.0.0.1:8080").
	// Defaults to "127.0.0.1:8080" (localhost only) if empty.
	HTTPAddr string `yaml:"http_addr" mapstructure:"http_addr" validate:"omitempty,hostname_port"`

	// LogLevel sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Defaults to "info" if empty. DevMode=true overrides to "debug".
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// AllowedOrigins are the browser origins allowed to call the API.
	// Empty means local-only: cross-origin requests are refused.
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins" validate:"omitempty,dive,url"`
}

// BackendConfig configures the remote commerce API client.
type BackendConfig struct {
	// URL is the base URL of the commerce backend (e.g., "http://localhost:5000/api").
	URL string `yaml:"url" mapstructure:"url" validate:"required,url"`

	// Timeout is the per-request timeout (e.g., "10s", "1m").
	// Defaults to "10s" if not specified.
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"omitempty,duration"`
}

// StateConfig configures client-state persistence.
type StateConfig struct {
	// Backend selects the persistence engine.
	// Valid values: "file" (JSON file, default), "sqlite", "redis".
	Backend string `yaml:"backend" mapstructure:"backend" validate:"omitempty,oneof=file sqlite redis"`

	// Path is the state file location for the file backend, or the database
	// file for the sqlite backend. Defaults to ~/.shopfront/state.json
	// (state.db for sqlite).
	Path string `yaml:"path" mapstructure:"path"`

	// RedisAddr is the Redis address or URL for the redis backend
	// (e.g., "localhost:6379" or "redis://localhost:6379/0").
	// Required when backend is "redis".
	RedisAddr string `yaml:"redis_addr" mapstructure:"redis_addr"`
}

// UploadsConfig configures local image uploads.
type UploadsConfig struct {
	// Dir is the directory uploaded images are written to and served from.
	// Defaults to ~/.shopfront/images.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// MaxSizeMB is the per-file upload limit in megabytes. Defaults to 5.
	MaxSizeMB int `yaml:"max_size_mb" mapstructure:"max_size_mb" validate:"omitempty,min=1"`
}

// TracingConfig configures trace export.
type TracingConfig struct {
	// Enabled turns on span export for backend requests.
	// Default: false (opt-in).
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// SetDefaults applies sensible default values to the configuration.
func (c *Config) SetDefaults() {
	// Bind to localhost only; users who need network access must set
	// http_addr explicitly.
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = "127.0.0.1:8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.DevMode {
		c.Server.LogLevel = "debug"
	}

	if c.Backend.URL == "" {
		c.Backend.URL = "http://localhost:5000/api"
	}
	if c.Backend.Timeout == "" {
		c.Backend.Timeout = "10s"
	}

	if c.State.Backend == "" {
		c.State.Backend = "file"
	}
	if c.State.Path == "" {
		name := "state.json"
		if c.State.Backend == "sqlite" {
			name = "state.db"
		}
		c.State.Path = filepath.Join(homeDir(), ".shopfront", name)
	}

	if c.Uploads.Dir == "" {
		c.Uploads.Dir = filepath.Join(homeDir(), ".shopfront", "images")
	}
	if c.Uploads.MaxSizeMB == 0 {
		c.Uploads.MaxSizeMB = 5
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
