package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yndnr/podlink/internal/infra/confloader"
)

// DefaultConfigPath returns ~/.config/podlink/podlink.yaml, or the
// equivalent user config directory of the platform.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "podlink", "podlink.yaml")
}

// ResolvePath returns the file Load should read. An explicit path is used as
// given; otherwise the default path is used when it exists, and "" when it
// does not.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	def := DefaultConfigPath()
	if _, err := os.Stat(def); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return def
}

// NewLoader returns a loader for path with overrides applied last.
func NewLoader(path string, overrides map[string]any) *confloader.Loader {
	return confloader.NewLoader(
		confloader.WithConfigFile(ResolvePath(path)),
		confloader.WithOverrides(overrides),
	)
}

// Load reads the configuration through l on top of the defaults and
// validates it.
func Load(l *confloader.Loader) (*Config, error) {
	cfg := Default()
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
