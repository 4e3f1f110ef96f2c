package command

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/podlink/internal/cli/repl"
	"github.com/yndnr/podlink/internal/config"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Run commands interactively against one shared instance state",
		Description: "Every line runs as a podlink command. The store, the event log and the\n" +
			"library survive between lines, so \"use\" followed by \"settings\" reads\n" +
			"the instance just switched to. Global flags given on a line apply to that\n" +
			"line's output only; the instance is changed with \"use\".",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file (default: user config dir/podlink/history, \"-\" to disable)",
			},
		},
		Action: shellAction,
	}
}

func shellAction(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	var names []string
	for _, cmd := range c.App.Commands {
		if cmd.Name == "shell" {
			continue
		}
		names = append(names, cmd.Name)
		names = append(names, cmd.Aliases...)
	}

	exec := func(ctx context.Context, args []string) error {
		if args[0] == "shell" {
			return fmt.Errorf("already in a shell")
		}
		app := App()
		app.Reader = c.App.Reader
		app.Writer = c.App.Writer
		app.ErrWriter = c.App.ErrWriter
		app.Metadata = map[string]any{runtimeKey: rt}
		app.ExitErrHandler = func(*cli.Context, error) {}
		return app.RunContext(ctx, append([]string{c.App.Name}, args...))
	}

	target := rt.Store.InstanceURL()
	if target == "" {
		target = rt.Store.DefaultURL() + " (hosting origin)"
	}
	fmt.Fprintf(c.App.Writer, "Connected to %s. Type \"exit\" to leave.\n", target)

	r := repl.New(exec,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithCompleter(repl.NewCompleter(names)),
		repl.WithHistory(repl.NewHistory(historyPath(c.String("history")))),
	)
	return r.Run(c.Context)
}

func historyPath(flag string) string {
	switch flag {
	case "-":
		return ""
	case "":
		return filepath.Join(filepath.Dir(config.DefaultConfigPath()), "history")
	default:
		return flag
	}
}
