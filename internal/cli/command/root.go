package command

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/podlink/internal/cli/output"
	"github.com/yndnr/podlink/internal/infra/buildinfo"
)

const runtimeKey = "runtime"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:                 "podlink",
		Usage:                "Inspect and follow the configuration of a music pod instance",
		Version:              buildinfo.Get().Version,
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			SettingsCommand(),
			FrontCommand(),
			ResolveCommand(),
			UseCommand(),
			WatchCommand(),
			ShellCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			if c.Args().First() == "version" {
				return nil
			}
			// Shell lines run against the session's runtime.
			if _, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
				return nil
			}
			rt, err := newRuntime(c)
			if err != nil {
				return err
			}
			c.App.Metadata[runtimeKey] = rt
			return nil
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (default: user config dir/podlink/podlink.yaml)",
			EnvVars: []string{"PODLINK_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "instance",
			Aliases: []string{"i"},
			Usage:   "Instance URL, overrides instance_url",
		},
		&cli.StringFlag{
			Name:  "origin",
			Usage: "Hosting origin of the front end, overrides front.origin",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error (overrides log.level)",
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "Do not show the activity spinner",
		},
	}
}

// flagOverrides maps explicitly set global flags onto configuration keys.
func flagOverrides(c *cli.Context) map[string]any {
	keys := map[string]string{
		"instance":  "instance_url",
		"origin":    "front.origin",
		"log-level": "log.level",
	}
	out := make(map[string]any)
	for flag, key := range keys {
		if c.IsSet(flag) {
			out[key] = c.String(flag)
		}
	}
	return out
}

// getRuntime retrieves the runtime built in Before.
func getRuntime(c *cli.Context) (*Runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt, nil
	}
	return nil, fmt.Errorf("runtime not initialized")
}

// render writes data in the selected output format.
func render(c *cli.Context, data any) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}
	return output.NewFormatter(format).Format(c.App.Writer, data)
}

// spinner returns an activity spinner on stderr, silent unless stderr is a
// terminal.
func spinner(c *cli.Context, message string) *output.Spinner {
	var w io.Writer
	if !c.Bool("no-progress") && isTerminal(c.App.ErrWriter) {
		w = c.App.ErrWriter
	}
	return output.NewSpinner(w, message)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// PrintError prints an error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}
