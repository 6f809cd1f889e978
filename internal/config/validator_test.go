package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{}
	cfg.SetDefaults()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "bad http addr",
			mutate:  func(c *Config) { c.Server.HTTPAddr = "not an addr" },
			wantMsg: "host:port",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Server.LogLevel = "verbose" },
			wantMsg: "must be one of",
		},
		{
			name:    "missing backend url",
			mutate:  func(c *Config) { c.Backend.URL = "" },
			wantMsg: "required",
		},
		{
			name:    "invalid backend url",
			mutate:  func(c *Config) { c.Backend.URL = "not-a-url" },
			wantMsg: "valid URL",
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Backend.Timeout = "soon" },
			wantMsg: "duration",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Backend.Timeout = "-5s" },
			wantMsg: "duration",
		},
		{
			name:    "unknown state backend",
			mutate:  func(c *Config) { c.State.Backend = "dynamo" },
			wantMsg: "must be one of",
		},
		{
			name: "redis without addr",
			mutate: func(c *Config) {
				c.State.Backend = "redis"
				c.State.RedisAddr = ""
			},
			wantMsg: "redis_addr",
		},
		{
			name: "file without path",
			mutate: func(c *Config) {
				c.State.Backend = "file"
				c.State.Path = ""
			},
			wantMsg: "requires path",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Uploads.MaxSizeMB = -1 },
			wantMsg: "at least",
		},
		{
			name:    "bad origin",
			mutate:  func(c *Config) { c.Server.AllowedOrigins = []string{"localhost"} },
			wantMsg: "valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidate_RedisBackend(t *testing.T) {
	cfg := validConfig()
	cfg.State.Backend = "redis"
	cfg.State.RedisAddr = "localhost:6379"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("redis config should validate: %v", err)
	}
}

func TestBackendTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Backend.Timeout = "1m30s"
	if got := cfg.BackendTimeout(); got != 90*time.Second {
		t.Errorf("expected 90s, got %v", got)
	}

	cfg.Backend.Timeout = "garbage"
	if got := cfg.BackendTimeout(); got != 10*time.Second {
		t.Errorf("fallback should be 10s, got %v", got)
	}
}

func TestMaxUploadBytes(t *testing.T) {
	cfg := validConfig()
	cfg.Uploads.MaxSizeMB = 2
	if got := cfg.MaxUploadBytes(); got != 2<<20 {
		t.Errorf("expected 2 MiB, got %d", got)
	}
}
