package instance

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mitchellh/copystructure"
	"github.com/oklog/ulid/v2"
)

// DefaultMaxEvents is the default ceiling of the event log.
const DefaultMaxEvents = 200

// Event is an application-level occurrence kept in the event log.
type Event struct {
	ID       string         `json:"id" yaml:"id"`
	Level    slog.Level     `json:"level" yaml:"level"`
	Message  string         `json:"message" yaml:"message"`
	Time     time.Time      `json:"time" yaml:"time"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewEvent creates an event stamped with a fresh ID and the current time.
func NewEvent(level slog.Level, message string, metadata map[string]any) Event {
	return Event{
		ID:       newEventID(),
		Level:    level,
		Message:  message,
		Time:     time.Now(),
		Metadata: metadata,
	}
}

func newEventID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return ""
	}
	return strings.ToLower(id.String())
}

// prependBounded puts e in front of events and drops everything past limit.
func prependBounded(events []Event, e Event, limit int) []Event {
	out := make([]Event, 0, min(len(events)+1, limit))
	out = append(out, e)
	for _, old := range events {
		if len(out) >= limit {
			break
		}
		out = append(out, old)
	}
	return out
}

func cloneEvents(events []Event) []Event {
	if events == nil {
		return nil
	}
	c, err := copystructure.Copy(events)
	if err != nil {
		panic(fmt.Sprintf("instance: copy events: %v", err))
	}
	return c.([]Event)
}

// eventEnv is what filter expressions see for each event.
type eventEnv struct {
	ID       string         `expr:"id"`
	Level    string         `expr:"level"`
	Severity int            `expr:"severity"`
	Message  string         `expr:"message"`
	Time     time.Time      `expr:"time"`
	Metadata map[string]any `expr:"metadata"`
}

func envFor(e Event) eventEnv {
	return eventEnv{
		ID:       e.ID,
		Level:    e.Level.String(),
		Severity: int(e.Level),
		Message:  e.Message,
		Time:     e.Time,
		Metadata: e.Metadata,
	}
}

// EventFilter selects events matching a boolean expression such as
//
//	level == "ERROR" && message contains "settings"
type EventFilter struct {
	source  string
	program *vm.Program
}

// CompileEventFilter compiles expression into an EventFilter. An empty
// expression matches every event.
func CompileEventFilter(expression string) (*EventFilter, error) {
	f := &EventFilter{source: expression}
	if strings.TrimSpace(expression) == "" {
		return f, nil
	}
	program, err := expr.Compile(expression, expr.Env(eventEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile event filter: %w", err)
	}
	f.program = program
	return f, nil
}

// String returns the source expression.
func (f *EventFilter) String() string {
	return f.source
}

// Match reports whether e satisfies the filter.
func (f *EventFilter) Match(e Event) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, envFor(e))
	if err != nil {
		return false, fmt.Errorf("run event filter: %w", err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply returns the events matching the filter, preserving order.
func (f *EventFilter) Apply(events []Event) ([]Event, error) {
	var out []Event
	for _, e := range events {
		ok, err := f.Match(e)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}
