package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/clockschedule-go/internal/cli/config"
	"github.com/yndnr/clockschedule-go/internal/cli/connection"
	"github.com/yndnr/clockschedule-go/internal/infra/buildinfo"
	"github.com/yndnr/clockschedule-go/internal/infra/shutdown"
	"github.com/yndnr/clockschedule-go/internal/infra/tlsroots"
	"github.com/yndnr/clockschedule-go/internal/storage"
	"github.com/yndnr/clockschedule-go/internal/telemetry/logger"
)

// ErrReported marks a failure that has already been shown to the user. The
// caller should exit non-zero without printing it again.
var ErrReported = errors.New("failure already reported")

// loginBurst is the number of login requests allowed before login_interval
// spacing applies.
const loginBurst = 3

const metaShutdown = "shutdown"

// App creates the CLI application. Cleanup registered by commands runs when
// h is shut down; a nil h gets a private handler.
func App(h *shutdown.Handler) *cli.App {
	if h == nil {
		h = shutdown.NewHandler(5 * time.Second)
	}

	return &cli.App{
		Name:    "clockschedule-cli",
		Usage:   "Log in to ClockSchedule from the terminal",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			StatusCommand(),
			ConfigCommand(),
		},
		Metadata: map[string]any{
			metaShutdown: h,
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			EnvVars: []string{"CLOCKSCHEDULE_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "api-base-url",
			Usage:   "ClockSchedule server origin (e.g., http://localhost:4000)",
			EnvVars: []string{"CLOCKSCHEDULE_API_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.StringFlag{
			Name:  "store",
			Usage: "Token store backend: file, badger, memory",
		},
		&cli.StringFlag{
			Name:  "timeout",
			Usage: "Login request timeout (e.g., 30s)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	ConfigPath string
	APIBaseURL string
	Output     string
	Store      string
	Timeout    string
	Verbose    bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		ConfigPath: c.String("config"),
		APIBaseURL: c.String("api-base-url"),
		Output:     c.String("output"),
		Store:      c.String("store"),
		Timeout:    c.String("timeout"),
		Verbose:    c.Bool("verbose"),
	}
}

// overrides returns the config values set explicitly on the command line,
// keyed like the config file.
func (f *GlobalFlags) overrides() map[string]any {
	m := make(map[string]any)
	for key, val := range map[string]string{
		"api_base_url":  f.APIBaseURL,
		"output":        f.Output,
		"store.backend": f.Store,
		"timeout":       f.Timeout,
	} {
		if val != "" {
			m[key] = val
		}
	}
	return m
}

// loadConfig builds the effective configuration for c.
func loadConfig(c *cli.Context) (*config.CLIConfig, error) {
	flags := ParseGlobalFlags(c)
	cfg, err := config.Load(flags.ConfigPath, flags.overrides())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger creates the command logger on the application error writer and
// installs it as the default.
func newLogger(c *cli.Context, cfg *config.CLIConfig) (logger.Logger, error) {
	level := cfg.LogLevel
	if c.Bool("verbose") {
		level = "debug"
	}

	log, err := logger.New(logger.Config{
		Level:  level,
		Format: "text",
		Output: errWriter(c),
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// openStore opens the configured token store and schedules it for closing.
func openStore(c *cli.Context, cfg *config.CLIConfig, log logger.Logger) (storage.Store, error) {
	store, err := storage.Open(storage.Config{
		Backend: cfg.Store.Backend,
		Dir:     cfg.Store.Dir,
	}, logger.Slog(log))
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	shutdownHandler(c).OnShutdown(func(ctx context.Context) error {
		return store.Close()
	})
	return store, nil
}

// newClient creates the login HTTP client from cfg.
func newClient(cfg *config.CLIConfig) (*connection.HTTPClient, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	interval, err := cfg.LoginIntervalDuration()
	if err != nil {
		return nil, err
	}

	opts := []connection.Option{
		connection.WithTimeout(timeout),
		connection.WithUserAgent(buildinfo.UserAgent()),
	}
	if interval > 0 {
		opts = append(opts, connection.WithRateLimit(rate.Every(interval), loginBurst))
	}
	if cfg.CAFile != "" {
		tlsCfg, err := tlsroots.ClientConfigFromFile(cfg.CAFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, connection.WithTLSConfig(tlsCfg))
	}
	return connection.NewHTTPClient(cfg.APIBaseURL, opts...)
}

// shutdownHandler returns the handler stored in the app metadata.
func shutdownHandler(c *cli.Context) *shutdown.Handler {
	if h, ok := c.App.Metadata[metaShutdown].(*shutdown.Handler); ok {
		return h
	}
	h := shutdown.NewHandler(5 * time.Second)
	c.App.Metadata[metaShutdown] = h
	return h
}

func outWriter(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// PrintError prints an error message to w.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
