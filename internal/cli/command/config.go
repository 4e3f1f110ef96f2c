package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/podlink/internal/config"
	"github.com/yndnr/podlink/internal/infra/buildinfo"
	"github.com/yndnr/podlink/internal/telemetry/logger"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the effective configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the merged configuration (file, environment and flags)",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file in use",
				Action: configPath,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	cfg := *rt.Config
	cfg.InstanceURL = logger.RedactString(cfg.InstanceURL)
	return render(c, cfg)
}

func configPath(c *cli.Context) error {
	path := config.ResolvePath(c.String("config"))
	if path == "" {
		fmt.Fprintf(c.App.ErrWriter, "no configuration file (looked for %s)\n", config.DefaultConfigPath())
		return nil
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			return render(c, buildinfo.Get())
		},
	}
}
