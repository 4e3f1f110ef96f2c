package command

import (
	"fmt"
	"maps"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/podlink/internal/cli/output"
	"github.com/yndnr/podlink/internal/instance"
)

// SettingsCommand returns the settings command.
func SettingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Fetch and show the instance settings",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when the server sends records that cannot be applied",
			},
		},
		Action: settingsAction,
	}
}

// settingsView renders typed settings as SECTION/NAME/VALUE rows.
type settingsView map[string]map[string]any

func (v settingsView) Table() *output.Table {
	t := output.NewTable("SECTION", "NAME", "VALUE")
	for _, section := range slices.Sorted(maps.Keys(v)) {
		names := v[section]
		for _, name := range slices.Sorted(maps.Keys(names)) {
			t.AddRow(section, name, output.Cell(names[name]))
		}
	}
	return t
}

func settingsAction(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	sp := spinner(c, "Fetching instance settings")
	sp.Start()
	res := rt.Sync.FetchSettings(c.Context, nil)
	if res.Err != nil {
		sp.Fail("Fetching instance settings failed")
		return res.Err
	}
	sp.Stop()

	notApplied := append(slices.Clone(res.Skipped), res.Rejected...)
	for _, e := range notApplied {
		fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", e)
	}
	if c.Bool("strict") && len(notApplied) > 0 {
		return fmt.Errorf("%d settings records not applied", len(notApplied))
	}

	settings := rt.Store.Settings()
	return render(c, settingsView(settings.Values()))
}

// FrontCommand returns the front command.
func FrontCommand() *cli.Command {
	return &cli.Command{
		Name:   "front",
		Usage:  "Fetch and show the front-end settings (settings.json) of the hosting origin",
		Action: frontAction,
	}
}

func frontAction(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	sp := spinner(c, "Fetching front-end settings")
	sp.Start()
	res := rt.Sync.FetchFrontSettings(c.Context)
	switch {
	case res.Absent:
		sp.Stop()
		fmt.Fprintf(c.App.ErrWriter, "no front-end customization at %s\n",
			instance.Resolve("", rt.Store.Location(), instance.FrontSettingsPath))
		return nil
	case res.Err != nil:
		sp.Fail("Fetching front-end settings failed")
		return res.Err
	}
	sp.Stop()

	return render(c, rt.Store.FrontSettings())
}
