package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/urfave/cli/v2"
)

// mockInstance serves the endpoints podlink reads.
type mockInstance struct {
	*httptest.Server
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	hits     map[string]*atomic.Int32
}

func newMockInstance(t *testing.T) *mockInstance {
	t.Helper()
	m := &mockInstance{
		handlers: make(map[string]http.HandlerFunc),
		hits:     make(map[string]*atomic.Int32),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		h, ok := m.handlers[r.URL.Path]
		if c := m.hits[r.URL.Path]; c != nil {
			c.Add(1)
		}
		m.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockInstance) handle(path string, h http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = h
	if m.hits[path] == nil {
		m.hits[path] = new(atomic.Int32)
	}
}

func (m *mockInstance) count(path string) int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c := m.hits[path]; c != nil {
		return c.Load()
	}
	return 0
}

const (
	prefixedSettingsPath = "/api/v1/instance/settings/"
	bareSettingsPath     = "/instance/settings/"
)

// settings serves records at the instance API path.
func (m *mockInstance) settings(records ...map[string]any) {
	m.settingsAt(prefixedSettingsPath, records...)
}

func (m *mockInstance) settingsAt(path string, records ...map[string]any) {
	m.handle(path, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, records)
	})
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func record(section, name string, value any) map[string]any {
	return map[string]any{"section": section, "name": name, "value": value}
}

// isolate keeps the user's real configuration out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"PODLINK_CONFIG", "PODLINK_INSTANCE_URL", "PODLINK_MAX_EVENTS"} {
		// Setenv restores the original value on cleanup; the variable must be
		// absent, not empty, or it would override the config file.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes of watch.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestApp() (*cli.App, *syncBuffer, *syncBuffer) {
	var stdout, stderr syncBuffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app, &stdout, &stderr
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	return runContext(t, context.Background(), args...)
}

func runContext(t *testing.T, ctx context.Context, args ...string) result {
	t.Helper()
	app, stdout, stderr := newTestApp()
	err := app.RunContext(ctx, append([]string{"podlink", "--log-level", "error"}, args...))
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "podlink.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodeJSON(t *testing.T, s string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(s), v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
}

// captureCommand exposes the runtime built for an invocation.
func captureCommand(dst **Runtime) *cli.Command {
	return &cli.Command{
		Name: "capture",
		Action: func(c *cli.Context) error {
			rt, err := getRuntime(c)
			*dst = rt
			return err
		},
	}
}
