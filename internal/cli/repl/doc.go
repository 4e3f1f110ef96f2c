// Package repl provides the interactive shell of podlink.
//
//   - repl.go: the read-eval-print loop and argument splitting
//   - completer.go: command-name suggestions
//   - history.go: persistent line history
//
// The loop does not know about commands; it hands each line to an Executor.
package repl
