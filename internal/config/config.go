// Package config loads service configuration from the environment, optionally
// seeded from a dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	// DefaultEnvironment is reported when NODE_ENV is unset or empty.
	DefaultEnvironment = "development"
	// DefaultVersion is the application version reported by GET /.
	DefaultVersion = "1.0.0"
)

// Config holds all runtime configuration.
type Config struct {
	Port        int    `env:"PORT" envDefault:"3000"`
	Environment string `env:"NODE_ENV" envDefault:"development"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	HTTP HTTPConfig
}

// HTTPConfig holds http.Server tuning.
type HTTPConfig struct {
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"2s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxHeaderBytes    int           `env:"MAX_HEADER_BYTES" envDefault:"65536"`
}

// Load reads the dotenv file named by ENV_FILE (default ".env") if it exists,
// then parses and validates the environment. Variables already set in the
// process environment win over the file.
func Load() (*Config, error) {
	if err := loadDotenv(os.Getenv("ENV_FILE")); err != nil {
		return nil, err
	}
	return Parse()
}

// Parse builds a Config from the current process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Environment = strings.TrimSpace(cfg.Environment)
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if strings.TrimSpace(cfg.Version) == "" {
		cfg.Version = DefaultVersion
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadDotenv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	switch {
	case err == nil:
		return nil
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	// 0 asks the kernel for a free port.
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"READ_TIMEOUT", c.HTTP.ReadTimeout},
		{"READ_HEADER_TIMEOUT", c.HTTP.ReadHeaderTimeout},
		{"WRITE_TIMEOUT", c.HTTP.WriteTimeout},
		{"IDLE_TIMEOUT", c.HTTP.IdleTimeout},
		{"SHUTDOWN_TIMEOUT", c.HTTP.ShutdownTimeout},
	}
	for _, tt := range timeouts {
		if tt.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", tt.name, tt.d)
		}
	}
	if c.HTTP.MaxHeaderBytes <= 0 {
		return fmt.Errorf("MAX_HEADER_BYTES must be positive, got %d", c.HTTP.MaxHeaderBytes)
	}
	return nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
