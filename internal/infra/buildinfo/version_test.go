package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" || info.Commit == "" || info.BuildTime == "" {
		t.Errorf("Get() = %+v, fields should never be empty", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestGet_Injected(t *testing.T) {
	prevV, prevC, prevT := Version, Commit, BuildTime
	defer func() { Version, Commit, BuildTime = prevV, prevC, prevT }()

	Version, Commit, BuildTime = "v1.2.3", "abc123", "2026-01-01T00:00:00Z"

	info := Get()
	if info.Version != "v1.2.3" || info.Commit != "abc123" || info.BuildTime != "2026-01-01T00:00:00Z" {
		t.Errorf("Get() = %+v, injected values should win", info)
	}
}

func TestString(t *testing.T) {
	prev := Version
	defer func() { Version = prev }()
	Version = "v9.9.9"

	s := String()
	if !strings.HasPrefix(s, "v9.9.9 (") {
		t.Errorf("String() = %q, want version prefix", s)
	}
	if !strings.Contains(s, "built at") || !strings.Contains(s, runtime.Version()) {
		t.Errorf("String() = %q", s)
	}
}
