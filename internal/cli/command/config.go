package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/clockschedule-go/internal/cli/config"
	"github.com/yndnr/clockschedule-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
			{
				Name:      "get",
				Usage:     "Print one value from the config file",
				ArgsUsage: "KEY",
				Action:    configGet,
			},
			{
				Name:      "set",
				Usage:     "Set a value in the config file",
				ArgsUsage: "KEY VALUE",
				Action:    configSet,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	values := make(map[string]string, len(config.Keys()))
	for _, key := range config.Keys() {
		v, _ := config.Get(cfg, key)
		values[key] = v
	}
	return output.NewFormatter(format).Format(outWriter(c), values)
}

func configPath(c *cli.Context) error {
	fmt.Fprintln(outWriter(c), ParseGlobalFlags(c).ConfigPath)
	return nil
}

func configGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: config get KEY (keys: %v)", config.Keys())
	}

	cfg, err := config.LoadFile(ParseGlobalFlags(c).ConfigPath)
	if err != nil {
		return err
	}
	v, err := config.Get(cfg, c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(outWriter(c), v)
	return nil
}

func configSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: config set KEY VALUE (keys: %v)", config.Keys())
	}
	key, value := c.Args().Get(0), c.Args().Get(1)
	path := ParseGlobalFlags(c).ConfigPath

	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if err := config.Set(cfg, key, value); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(outWriter(c), "%s = %s\n", key, value)
	return nil
}
