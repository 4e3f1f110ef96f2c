package instance

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"testing"
)

// recordingTransport records base address changes.
type recordingTransport struct {
	mu      sync.Mutex
	baseURL string
	set     bool
	calls   []string
}

func (r *recordingTransport) SetBaseURL(baseURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseURL = baseURL
	r.set = true
	r.calls = append(r.calls, "set:"+baseURL)
}

func (r *recordingTransport) ClearBaseURL() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseURL = ""
	r.set = false
	r.calls = append(r.calls, "clear")
}

func (r *recordingTransport) BaseURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.baseURL
}

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore()

	if s.InstanceURL() != "" {
		t.Errorf("InstanceURL() = %q, want empty", s.InstanceURL())
	}
	if s.MaxEvents() != DefaultMaxEvents {
		t.Errorf("MaxEvents() = %d, want %d", s.MaxEvents(), DefaultMaxEvents)
	}
	if !reflect.DeepEqual(s.Settings(), DefaultSettings()) {
		t.Error("Settings() should start from the default skeleton")
	}
	if len(s.FrontSettings()) != 0 {
		t.Errorf("FrontSettings() = %v, want empty", s.FrontSettings())
	}
	if len(s.Events()) != 0 {
		t.Errorf("Events() has %d entries, want 0", len(s.Events()))
	}
}

func TestNewStore_SeedsInstanceURL(t *testing.T) {
	tr := &recordingTransport{}
	s := NewStore(WithInstanceURL("https://demo.example.org"), WithTransport(tr))

	if s.InstanceURL() != "https://demo.example.org/" {
		t.Errorf("InstanceURL() = %q, want normalized seed", s.InstanceURL())
	}
	if tr.BaseURL() != "https://demo.example.org/api/v1/" {
		t.Errorf("transport base = %q, want %q", tr.BaseURL(), "https://demo.example.org/api/v1/")
	}
}

func TestStore_SetInstanceURL(t *testing.T) {
	tr := &recordingTransport{}
	s := NewStore(WithTransport(tr))

	s.SetInstanceURL("https://example.org")
	if got := s.InstanceURL(); got != "https://example.org/" {
		t.Errorf("InstanceURL() = %q, want %q", got, "https://example.org/")
	}
	if got := tr.BaseURL(); got != "https://example.org/api/v1/" {
		t.Errorf("transport base = %q, want %q", got, "https://example.org/api/v1/")
	}

	s.SetInstanceURL("https://example.org/")
	if got := s.InstanceURL(); got != "https://example.org/" {
		t.Errorf("InstanceURL() after second call = %q, want %q", got, "https://example.org/")
	}

	s.SetInstanceURL("")
	if got := s.InstanceURL(); got != "" {
		t.Errorf("InstanceURL() = %q, want empty", got)
	}
	if tr.set {
		t.Error("empty instance URL should clear the transport base")
	}

	want := []string{"clear", "set:https://example.org/api/v1/", "set:https://example.org/api/v1/", "clear"}
	if !reflect.DeepEqual(tr.calls, want) {
		t.Errorf("transport calls = %v, want %v", tr.calls, want)
	}
}

func TestStore_AppendEvent_NewestFirst(t *testing.T) {
	s := NewStore()

	for i := 0; i < 3; i++ {
		s.AppendEvent(NewEvent(slog.LevelInfo, fmt.Sprintf("event %d", i), nil))
	}

	events := s.Events()
	if len(events) != 3 {
		t.Fatalf("Events() has %d entries, want 3", len(events))
	}
	if events[0].Message != "event 2" || events[2].Message != "event 0" {
		t.Errorf("order = [%s, %s, %s], want newest first",
			events[0].Message, events[1].Message, events[2].Message)
	}
}

func TestStore_AppendEvent_Bounded(t *testing.T) {
	const limit = 5
	const extra = 3
	s := NewStore(WithMaxEvents(limit))

	for i := 0; i < limit+extra; i++ {
		s.AppendEvent(Event{Message: fmt.Sprintf("event %d", i)})
		if n := len(s.Events()); n > limit {
			t.Fatalf("after %d appends Events() has %d entries, ceiling is %d", i+1, n, limit)
		}
	}

	events := s.Events()
	if len(events) != limit {
		t.Fatalf("Events() has %d entries, want %d", len(events), limit)
	}
	for i, e := range events {
		want := fmt.Sprintf("event %d", limit+extra-1-i)
		if e.Message != want {
			t.Errorf("events[%d] = %q, want %q", i, e.Message, want)
		}
	}
}

func TestStore_AppendEvent_FillsIDAndTime(t *testing.T) {
	s := NewStore()
	s.AppendEvent(Event{Message: "bare"})

	e := s.Events()[0]
	if e.ID == "" {
		t.Error("AppendEvent should assign an ID")
	}
	if e.Time.IsZero() {
		t.Error("AppendEvent should assign a time")
	}
}

func TestStore_ReplaceEvents_BypassesCeiling(t *testing.T) {
	s := NewStore(WithMaxEvents(2))

	bulk := []Event{{Message: "a"}, {Message: "b"}, {Message: "c"}}
	s.ReplaceEvents(bulk)

	if n := len(s.Events()); n != 3 {
		t.Errorf("Events() has %d entries, want 3 (no truncation on replace)", n)
	}

	// The next append applies the ceiling again.
	s.AppendEvent(Event{Message: "d"})
	events := s.Events()
	if len(events) != 2 || events[0].Message != "d" || events[1].Message != "a" {
		t.Errorf("Events() = %v, want [d a]", events)
	}

	bulk[0].Message = "mutated"
	if s.Events()[1].Message != "a" {
		t.Error("ReplaceEvents should copy its input")
	}
}

func TestStore_ReplaceFrontSettings(t *testing.T) {
	s := NewStore()

	s.ReplaceFrontSettings(map[string]any{"theme": "dark", "nested": map[string]any{"a": 1}})
	s.ReplaceFrontSettings(map[string]any{"additionalStylesheets": []any{"/custom.css"}})

	got := s.FrontSettings()
	if _, ok := got["theme"]; ok {
		t.Error("ReplaceFrontSettings should replace, not merge")
	}
	if _, ok := got["additionalStylesheets"]; !ok {
		t.Error("new front settings missing")
	}

	got["injected"] = true
	if _, ok := s.FrontSettings()["injected"]; ok {
		t.Error("FrontSettings() should return a copy")
	}
}

func TestStore_MergeSettings(t *testing.T) {
	s := NewStore()

	errs := s.MergeSettings(Tree{"instance": {"name": {"value": "X"}}})
	if len(errs) != 0 {
		t.Fatalf("MergeSettings() errors = %v", errs)
	}

	got := s.Settings()
	if got.Instance.Name.Value != "X" {
		t.Errorf("instance.name = %q, want %q", got.Instance.Name.Value, "X")
	}
	if !got.Users.RegistrationEnabled.Value {
		t.Error("users.registration_enabled should keep its default")
	}
}

func TestStore_AbsoluteURL(t *testing.T) {
	s := NewStore(WithLocation(Location{Scheme: "http", Hostname: "localhost", Port: "8080"}))

	if got := s.AbsoluteURL("/api/foo"); got != "http://localhost:8080/api/foo" {
		t.Errorf("AbsoluteURL() without instance = %q", got)
	}

	s.SetInstanceURL("https://example.org/")
	if got := s.AbsoluteURL("/api/foo"); got != "https://example.org/api/foo" {
		t.Errorf("AbsoluteURL() = %q, want %q", got, "https://example.org/api/foo")
	}
	if got := s.AbsoluteURL("http://other.org/x"); got != "http://other.org/x" {
		t.Errorf("AbsoluteURL() = %q, want input unchanged", got)
	}
	if got := s.DefaultURL(); got != "http://localhost:8080" {
		t.Errorf("DefaultURL() = %q, want %q", got, "http://localhost:8080")
	}
}

func TestStore_Snapshot(t *testing.T) {
	s := NewStore(WithInstanceURL("https://example.org"), WithMaxEvents(10))
	s.AppendEvent(Event{Message: "one"})
	s.ReplaceFrontSettings(map[string]any{"k": "v"})

	snap := s.Snapshot()
	if snap.InstanceURL != "https://example.org/" || snap.MaxEvents != 10 {
		t.Errorf("Snapshot() = %+v", snap)
	}
	if len(snap.Events) != 1 || snap.FrontSettings["k"] != "v" {
		t.Errorf("Snapshot() events/front = %v / %v", snap.Events, snap.FrontSettings)
	}
}

func TestStore_ConcurrentMutations(t *testing.T) {
	s := NewStore(WithMaxEvents(50), WithTransport(&recordingTransport{}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.AppendEvent(Event{Message: "x"})
				s.MergeSettings(Tree{"users": {"upload_quota": {"value": float64(i)}}})
				s.SetInstanceURL(fmt.Sprintf("https://node%d.example.org", i))
				_ = s.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	if n := len(s.Events()); n != 50 {
		t.Errorf("Events() has %d entries, want 50", n)
	}
}
