package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/clockschedule-go/internal/core/service"
)

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Remove the stored session token",
		Action: logoutAction,
	}
}

func logoutAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}
	store, err := openStore(c, cfg, log)
	if err != nil {
		return err
	}

	if err := service.NewSession(store).Logout(c.Context); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	log.Debug("token cleared", "store", store.Location())

	fmt.Fprintln(outWriter(c), "Logged out")
	return nil
}
