// Command podlink inspects and follows the configuration of a music pod
// instance from the command line.
package main

import (
	"os"

	"github.com/yndnr/podlink/internal/cli/command"
)

func main() {
	app := command.App()
	if err := app.Run(os.Args); err != nil {
		command.PrintError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
