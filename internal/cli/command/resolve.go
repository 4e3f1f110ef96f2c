package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/podlink/internal/cli/output"
	"github.com/yndnr/podlink/internal/library"
)

// ResolveCommand returns the resolve command.
func ResolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Turn relative paths into absolute URLs against the instance",
		ArgsUsage: "PATH...",
		Action:    resolveAction,
	}
}

type resolved struct {
	Path string `json:"path" yaml:"path"`
	URL  string `json:"url" yaml:"url"`
}

type resolvedList []resolved

func (l resolvedList) Table() *output.Table {
	t := output.NewTable("PATH", "URL")
	for _, r := range l {
		t.AddRow(r.Path, r.URL)
	}
	return t
}

func resolveAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("resolve: at least one PATH is required", 2)
	}
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	out := make(resolvedList, 0, c.NArg())
	for _, p := range c.Args().Slice() {
		out = append(out, resolved{Path: p, URL: rt.Store.AbsoluteURL(p)})
	}
	return render(c, out)
}

// UseCommand returns the use command.
func UseCommand() *cli.Command {
	return &cli.Command{
		Name:      "use",
		Usage:     "Switch to another instance and show the resulting state",
		ArgsUsage: "URL",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fetch",
				Usage: "Fetch the new instance's settings after switching",
			},
		},
		Action: useAction,
	}
}

type switchResult struct {
	InstanceURL string          `json:"instance_url" yaml:"instance_url"`
	APIBase     string          `json:"api_base" yaml:"api_base"`
	DefaultURL  string          `json:"default_url" yaml:"default_url"`
	Library     library.Summary `json:"library" yaml:"library"`
	Name        string          `json:"name,omitempty" yaml:"name,omitempty"`
}

func (r switchResult) Table() *output.Table {
	t := output.NewTable("FIELD", "VALUE")
	t.AddRow("instance_url", output.Cell(r.InstanceURL))
	t.AddRow("api_base", output.Cell(r.APIBase))
	t.AddRow("default_url", r.DefaultURL)
	t.AddRow("library", output.Cell(r.Library))
	if r.Name != "" {
		t.AddRow("name", r.Name)
	}
	return t
}

func useAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("use: expected a single URL", 2)
	}
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	// An empty argument switches back to the hosting origin.
	rt.Sync.SetInstance(c.Args().First())

	res := switchResult{
		InstanceURL: rt.Store.InstanceURL(),
		APIBase:     rt.Client.BaseURL(),
		DefaultURL:  rt.Store.DefaultURL(),
		Library:     rt.Library.Summary(),
	}
	if c.Bool("fetch") {
		if r := rt.Sync.FetchSettings(c.Context, nil); r.Err != nil {
			return r.Err
		}
		res.Name = rt.Store.Settings().Instance.Name.Value
	}
	return render(c, res)
}
