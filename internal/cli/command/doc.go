// Package command defines the podlink command line with urfave/cli/v2.
//
//   - root.go: the App, global flags, shared output helpers
//   - runtime.go: wiring of configuration, transport, store and synchronizer
//   - settings.go: settings and front commands
//   - resolve.go: resolve and use commands
//   - watch.go: long-running watch mode
//   - shell.go: interactive shell over one runtime
//   - config.go: config and version commands
package command
