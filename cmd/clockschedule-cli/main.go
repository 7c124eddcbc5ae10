// Package main provides the entry point for clockschedule-cli.
//
// clockschedule-cli logs in to a ClockSchedule server from the terminal and
// keeps the session token in a local store.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/yndnr/clockschedule-go/internal/cli/command"
	"github.com/yndnr/clockschedule-go/internal/infra/shutdown"
)

func main() {
	os.Exit(run())
}

func run() int {
	h := shutdown.NewHandler(5 * time.Second)
	ctx, stop := h.Context(context.Background())
	defer stop()

	app := command.App(h)
	err := app.RunContext(ctx, os.Args)
	if serr := h.Shutdown(); serr != nil && err == nil {
		err = serr
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, command.ErrReported):
		return 1
	default:
		command.PrintError(os.Stderr, err)
		return 1
	}
}
