// Package config loads hiredesk settings from the environment and from the
// per-user remotes file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable namespace, e.g. HIREDESK_API_URL.
const Prefix = "HIREDESK"

type Config struct {
	APIURL      string        `envconfig:"API_URL" default:"http://localhost:8080"`
	Token       string        `envconfig:"TOKEN"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`

	NATSURL     string `envconfig:"NATS_URL"`     // empty = events disabled
	DatabaseURL string `envconfig:"DATABASE_URL"` // empty = saved views unavailable
	RedisAddr   string `envconfig:"REDIS_ADDR"`   // empty = in-process logo cache

	LogoAPIURL string `envconfig:"LOGO_API_URL"`
	LogoAPIKey string `envconfig:"LOGO_API_KEY"`

	Export ExportConfig
}

// ExportConfig is read from HIREDESK_EXPORT_*. It controls where exports
// are written and how often the scheduled export runs.
type ExportConfig struct {
	Dir        string        `envconfig:"DIR" default:"."`
	S3Bucket   string        `envconfig:"S3_BUCKET"` // enables S3 when set
	S3Region   string        `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint string        `envconfig:"S3_ENDPOINT"` // custom endpoint for MinIO
	S3Prefix   string        `envconfig:"S3_PREFIX" default:"exports/"`
	Interval   time.Duration `envconfig:"INTERVAL" default:"0"` // 0 = run once
}

// ErrNoDatabase is returned by commands that need HIREDESK_DATABASE_URL.
var ErrNoDatabase = errors.New(Prefix + "_DATABASE_URL is not set")

// Load reads an optional .env file from the working directory, then the
// HIREDESK_* environment, and validates the result. Variables already set
// in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv is Load without the .env step.
func FromEnv() (*Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s_API_URL: invalid URL %q", Prefix, c.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s_API_URL: unsupported scheme %q", Prefix, u.Scheme)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%s_HTTP_TIMEOUT must not be negative", Prefix)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s_LOG_LEVEL: %w", Prefix, err)
	}
	if c.Export.Interval < 0 {
		return fmt.Errorf("%s_EXPORT_INTERVAL must not be negative", Prefix)
	}
	if (c.LogoAPIURL == "") != (c.LogoAPIKey == "") {
		return fmt.Errorf("%s_LOGO_API_URL and %s_LOGO_API_KEY must be set together", Prefix, Prefix)
	}
	return nil
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// NewLogger returns a text logger on stderr at the configured level.
// verbose forces debug.
func (c *Config) NewLogger(verbose bool) *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// EventsEnabled reports whether a NATS URL is configured.
func (c *Config) EventsEnabled() bool { return c.NATSURL != "" }

// RequireDatabase returns ErrNoDatabase when no database is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrNoDatabase
	}
	return nil
}
