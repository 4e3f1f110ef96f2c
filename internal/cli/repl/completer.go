package repl

import (
	"slices"
	"strings"
)

var builtins = []string{"exit", "quit", "history"}

// Completer knows the available command names.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer for commands plus the shell built-ins.
func NewCompleter(commands []string) *Completer {
	all := append(slices.Clone(commands), builtins...)
	slices.Sort(all)
	return &Completer{commands: slices.Compact(all)}
}

// Complete returns the names starting with prefix.
func (c *Completer) Complete(prefix string) []string {
	var out []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			out = append(out, cmd)
		}
	}
	return out
}

// Known reports whether name is a command or a global flag. Lines starting
// with a flag are passed through so that "-o json settings" works.
func (c *Completer) Known(name string) bool {
	if strings.HasPrefix(name, "-") {
		return true
	}
	_, found := slices.BinarySearch(c.commands, name)
	return found
}
