package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yndnr/clockschedule-go/internal/cli/config"
	"github.com/yndnr/clockschedule-go/internal/cli/connection"
	"github.com/yndnr/clockschedule-go/internal/cli/output"
	"github.com/yndnr/clockschedule-go/internal/cli/repl"
	"github.com/yndnr/clockschedule-go/internal/cli/route"
	"github.com/yndnr/clockschedule-go/internal/core/domain"
	"github.com/yndnr/clockschedule-go/internal/core/service"
	"github.com/yndnr/clockschedule-go/internal/infra/confloader"
	"github.com/yndnr/clockschedule-go/internal/storage"
	"github.com/yndnr/clockschedule-go/internal/telemetry/logger"
	"github.com/yndnr/clockschedule-go/internal/telemetry/metric"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session token",
		Description: "Without flags an interactive form is shown. For scripts, pass --email\n" +
			"and pipe the password on stdin with --password-stdin.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Email address (scripted mode)",
			},
			&cli.BoolFlag{
				Name:  "password-stdin",
				Usage: "Read the password from stdin (scripted mode)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable coloured notifications",
			},
		},
		Action: loginAction,
	}
}

func loginAction(c *cli.Context) error {
	scripted := c.IsSet("email") || c.Bool("password-stdin")
	if scripted && !(c.IsSet("email") && c.Bool("password-stdin")) {
		return errors.New("--email and --password-stdin must be used together")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(c, cfg, log)
	if err != nil {
		return err
	}

	metrics := metric.NewRegistry()
	if bs, ok := store.(*storage.BadgerStore); ok {
		bs.RegisterMetrics(metrics.Prometheus())
	}
	if cfg.MetricsTextfile != "" {
		path := cfg.MetricsTextfile
		shutdownHandler(c).OnShutdown(func(ctx context.Context) error {
			return metrics.WriteTextfile(path)
		})
	}

	out := outWriter(c)
	notifier := output.NewNotifier(out)
	if c.Bool("no-color") {
		notifier.DisableColor()
	}
	router := route.NewRouter(out, domain.RouteLogin)

	form := service.NewForm(client, store, notifier, router,
		service.WithObserver(metrics),
		service.WithLogger(log),
		service.WithProgress(func() func() {
			s := output.NewSpinner(out, "Logging in...")
			s.Start()
			return s.Stop
		}),
	)

	log.Debug("login", "api_base_url", client.BaseURL(), "store", store.Location())

	if scripted {
		err = scriptedLogin(c, form)
	} else {
		err = interactiveLogin(c, form, client, log)
	}
	log.Debug("login finished", "route", router.Current())
	return err
}

// scriptedLogin performs one submission with the password read from stdin.
func scriptedLogin(c *cli.Context, form *service.Form) error {
	password, err := readPasswordStdin(c.App.Reader)
	if err != nil {
		return err
	}

	form.SetEmail(c.String("email"))
	form.SetPassword(password)

	if err := form.Submit(c.Context); err != nil {
		return fmt.Errorf("%w: %w", ErrReported, err)
	}
	return nil
}

// readPasswordStdin reads r to the end and drops one trailing line break.
func readPasswordStdin(r io.Reader) (string, error) {
	if r == nil {
		r = os.Stdin
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(password, "\r"), nil
}

// interactiveLogin runs the terminal form until a successful login or quit.
func interactiveLogin(c *cli.Context, form *service.Form, client *connection.HTTPClient, log logger.Logger) error {
	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	out := outWriter(c)

	opts := []repl.Option{
		repl.WithIO(in, out),
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		opts = append(opts, repl.WithPasswordReader(func() ([]byte, error) {
			return term.ReadPassword(fd)
		}))
	}
	if reload := watchConfig(c, client, log); reload != nil {
		opts = append(opts, repl.WithBeforeSubmit(reload))
	}

	err := repl.New(form, opts...).Run(c.Context)
	if errors.Is(err, repl.ErrAborted) {
		fmt.Fprintln(out, "Login cancelled")
		return nil
	}
	return err
}

// watchConfig watches the config file and returns a hook that applies a
// changed base URL and log level before the next submission. It returns nil
// when the file cannot be watched.
func watchConfig(c *cli.Context, client *connection.HTTPClient, log logger.Logger) func() {
	path := ParseGlobalFlags(c).ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.Slog(log)))
	if err != nil {
		log.Debug("config watcher unavailable", "error", err)
		return nil
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil
	}

	var dirty atomic.Bool
	w.OnChange(func(string) {
		dirty.Store(true)
	})
	w.StartAsync()
	shutdownHandler(c).OnShutdown(func(ctx context.Context) error {
		return w.Stop()
	})

	return func() {
		if !dirty.CompareAndSwap(true, false) {
			return
		}
		cfg, err := loadConfig(c)
		if err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if !c.Bool("verbose") && cfg.LogLevel != logger.GetLevel() {
			if err := logger.SetLevel(cfg.LogLevel); err == nil {
				log.Info("log level changed", "level", logger.GetLevel())
			}
		}
		if cfg.APIBaseURL != client.BaseURL() {
			client.SetBaseURL(cfg.APIBaseURL)
			log.Info("config reloaded", "api_base_url", client.BaseURL())
		}
	}
}
