// Package config loads ops settings from the environment and optional
// .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFiles are loaded, when present, before the environment is parsed.
var DefaultEnvFiles = []string{".env", ".env.local"}

type APIOptions struct {
	URL        string `env:"OPS_API_URL" envDefault:"http://localhost:8088"`
	Token      string `env:"OPS_API_TOKEN"`
	TimeoutMS  int    `env:"OPS_API_TIMEOUT_MS" envDefault:"10000"`
	MaxRetries int    `env:"OPS_API_MAX_RETRIES" envDefault:"1"`
	LogCalls   bool   `env:"OPS_API_LOG_CALLS" envDefault:"false"`
}

// Timeout returns the per-call timeout as a duration.
func (a APIOptions) Timeout() time.Duration {
	return time.Duration(a.TimeoutMS) * time.Millisecond
}

type BackendOptions struct {
	Addr   string `env:"OPS_BACKEND_ADDR" envDefault:":8088"`
	Secret string `env:"OPS_BACKEND_SECRET"`
}

type Config struct {
	DBPath    string `env:"OPS_DB"`
	LogLevel  string `env:"OPS_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"OPS_LOG_FORMAT" envDefault:"text"`

	API     APIOptions
	Backend BackendOptions
}

// LoadEnv loads the env files that exist and returns how many were read.
// Variables already set in the process environment win.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads envFiles (DefaultEnvFiles when none are given), parses the
// environment and validates the result.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("loading env files: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultDBPath returns ~/.ops/ops.db, or ops.db in the working directory
// when no home directory is known.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ops.db"
	}
	return filepath.Join(home, ".ops", "ops.db")
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

func (c *Config) Validate() error {
	if c.API.TimeoutMS <= 0 {
		return fmt.Errorf("%w: OPS_API_TIMEOUT_MS must be positive, got %d", ErrInvalid, c.API.TimeoutMS)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("%w: OPS_API_MAX_RETRIES must be non-negative, got %d", ErrInvalid, c.API.MaxRetries)
	}
	if c.API.URL == "" {
		return fmt.Errorf("%w: OPS_API_URL is required", ErrInvalid)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: OPS_LOG_FORMAT must be 'text' or 'json', got '%s'", ErrInvalid, c.LogFormat)
	}
	return nil
}
