package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/clockschedule-go/internal/infra/confloader"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".clockschedule", "config.yaml")
	}
	return filepath.Join(homeDir, ".clockschedule", "config.yaml")
}

func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"api_base_url":   d.APIBaseURL,
		"output":         d.Output,
		"timeout":        d.Timeout,
		"login_interval": d.LoginInterval,
		"log_level":      d.LogLevel,
		"store.backend":  d.Store.Backend,
	}
}

// Load builds the effective configuration: defaults, then the file at path
// (missing is fine), then CLOCKSCHEDULE_* variables, then flags. flags holds
// only values the user set explicitly, keyed like the file.
func Load(path string, flags map[string]any) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	loader := confloader.NewLoader(
		confloader.WithConfigFile(path, true),
		confloader.WithDefaults(defaults()),
	)

	cfg := &CLIConfig{}
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if len(flags) > 0 {
		if err := loader.LoadMap(flags); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal flags: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads only defaults and the file, ignoring the environment. It is
// used when editing the file so that env values are not written back.
func LoadFile(path string) (*CLIConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with mode 0600.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0o600)
}

// fields maps file keys to struct fields.
func fields(cfg *CLIConfig) map[string]*string {
	return map[string]*string{
		"api_base_url":     &cfg.APIBaseURL,
		"ca_file":          &cfg.CAFile,
		"output":           &cfg.Output,
		"timeout":          &cfg.Timeout,
		"login_interval":   &cfg.LoginInterval,
		"log_level":        &cfg.LogLevel,
		"metrics_textfile": &cfg.MetricsTextfile,
		"store.backend":    &cfg.Store.Backend,
		"store.dir":        &cfg.Store.Dir,
	}
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, 9)
	for k := range fields(&CLIConfig{}) {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key.
func Get(cfg *CLIConfig, key string) (string, error) {
	f, ok := fields(cfg)[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return *f, nil
}

// Set assigns value to key and validates the result. cfg is unchanged on
// error.
func Set(cfg *CLIConfig, key, value string) error {
	next := *cfg
	f, ok := fields(&next)[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	*f = value
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}
