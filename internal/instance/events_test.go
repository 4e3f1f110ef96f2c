package instance

import (
	"log/slog"
	"strings"
	"testing"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(slog.LevelWarn, "slow response", map[string]any{"ms": 1200})

	if len(e.ID) != 26 || strings.ToLower(e.ID) != e.ID {
		t.Errorf("ID = %q, want a lowercase ULID", e.ID)
	}
	if e.Time.IsZero() {
		t.Error("Time should be set")
	}
	if other := NewEvent(slog.LevelWarn, "slow response", nil); other.ID == e.ID {
		t.Error("IDs should be unique")
	}
}

func TestPrependBounded(t *testing.T) {
	var events []Event
	for i := 0; i < 4; i++ {
		events = prependBounded(events, Event{Message: string(rune('a' + i))}, 3)
	}

	if len(events) != 3 {
		t.Fatalf("len = %d, want 3", len(events))
	}
	want := []string{"d", "c", "b"}
	for i, e := range events {
		if e.Message != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, e.Message, want[i])
		}
	}
}

func TestCloneEvents(t *testing.T) {
	if cloneEvents(nil) != nil {
		t.Error("cloneEvents(nil) should be nil")
	}

	orig := []Event{{Message: "x", Metadata: map[string]any{"k": "v"}}}
	c := cloneEvents(orig)
	c[0].Metadata["k"] = "changed"
	c[0].Message = "y"

	if orig[0].Metadata["k"] != "v" || orig[0].Message != "x" {
		t.Error("clone shares state with the original")
	}
}

func TestEventFilter(t *testing.T) {
	events := []Event{
		{Level: slog.LevelError, Message: "Error while fetching settings", Metadata: map[string]any{"error": "timeout"}},
		{Level: slog.LevelInfo, Message: "Successfully fetched instance settings"},
		{Level: slog.LevelWarn, Message: "slow"},
	}

	tests := []struct {
		name string
		expr string
		want int
	}{
		{"empty matches all", "", 3},
		{"by level", `level == "ERROR"`, 1},
		{"by severity", `severity >= 4`, 2},
		{"by message", `message contains "settings"`, 2},
		{"by metadata", `metadata?.error == "timeout"`, 1},
		{"none", `false`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := CompileEventFilter(tt.expr)
			if err != nil {
				t.Fatalf("CompileEventFilter(%q) error = %v", tt.expr, err)
			}
			if f.String() != tt.expr {
				t.Errorf("String() = %q, want %q", f.String(), tt.expr)
			}
			got, err := f.Apply(events)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Apply() matched %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestEventFilter_Invalid(t *testing.T) {
	tests := []string{
		`level ==`,
		`message`,      // not a boolean
		`unknown == 1`, // not in the environment
	}
	for _, src := range tests {
		if _, err := CompileEventFilter(src); err == nil {
			t.Errorf("CompileEventFilter(%q) should fail", src)
		}
	}
}

func TestEventFilter_NilMatchesAll(t *testing.T) {
	var f *EventFilter
	ok, err := f.Match(Event{})
	if err != nil || !ok {
		t.Errorf("nil filter Match() = %v, %v; want true, nil", ok, err)
	}
}
