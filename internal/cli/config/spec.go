package config

import (
	"fmt"
	"time"
)

// Default values.
const (
	DefaultAPIBaseURL    = "http://localhost:4000"
	DefaultOutput        = "table"
	DefaultTimeout       = "30s"
	DefaultLogLevel      = "warn"
	DefaultStoreBackend  = "file"
	DefaultLoginInterval = "1s"
)

// CLIConfig is the configuration for clockschedule-cli.
type CLIConfig struct {
	// APIBaseURL is the server origin the login request is sent to.
	APIBaseURL string `koanf:"api_base_url" yaml:"api_base_url"`

	// Output is the status output format: table, json or yaml.
	Output string `koanf:"output" yaml:"output"`

	// Timeout bounds one login request.
	Timeout string `koanf:"timeout" yaml:"timeout"`

	// LoginInterval is the minimum spacing between login requests after a
	// burst of three. "0" disables throttling.
	LoginInterval string `koanf:"login_interval" yaml:"login_interval"`

	LogLevel string `koanf:"log_level" yaml:"log_level"`

	// CAFile is a PEM bundle trusted in addition to the system roots.
	CAFile string `koanf:"ca_file" yaml:"ca_file,omitempty"`

	// MetricsTextfile, when set, receives login metrics on exit.
	MetricsTextfile string `koanf:"metrics_textfile" yaml:"metrics_textfile,omitempty"`

	Store StoreConfig `koanf:"store" yaml:"store"`
}

// StoreConfig selects the token store backend.
type StoreConfig struct {
	Backend string `koanf:"backend" yaml:"backend"` // memory, file, badger
	Dir     string `koanf:"dir" yaml:"dir,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		APIBaseURL:    DefaultAPIBaseURL,
		Output:        DefaultOutput,
		Timeout:       DefaultTimeout,
		LoginInterval: DefaultLoginInterval,
		LogLevel:      DefaultLogLevel,
		Store: StoreConfig{
			Backend: DefaultStoreBackend,
		},
	}
}

// Validate checks enumerations and durations.
func (c *CLIConfig) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output must be table, json or yaml, got %q", c.Output)
	}
	switch c.Store.Backend {
	case "memory", "file", "badger":
	default:
		return fmt.Errorf("store.backend must be memory, file or badger, got %q", c.Store.Backend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.LoginIntervalDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout.
func (c *CLIConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("timeout must be a positive duration, got %q", c.Timeout)
	}
	return d, nil
}

// LoginIntervalDuration parses LoginInterval.
func (c *CLIConfig) LoginIntervalDuration() (time.Duration, error) {
	if c.LoginInterval == "" || c.LoginInterval == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.LoginInterval)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("login_interval must be a duration, got %q", c.LoginInterval)
	}
	return d, nil
}
