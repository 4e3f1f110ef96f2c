package tlsroots

import (
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// serverCA starts a TLS server and writes its certificate to dir/name.
func serverCA(t *testing.T, dir, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	block := &pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw}
	if err := os.WriteFile(filepath.Join(dir, name), pem.EncodeToMemory(block), 0644); err != nil {
		t.Fatal(err)
	}
	return srv
}

func get(t *testing.T, url string, paths ...string) error {
	t.Helper()
	cfg, err := ClientConfig(paths...)
	if err != nil {
		t.Fatalf("ClientConfig() error = %v", err)
	}
	hc := &http.Client{Transport: &http.Transport{TLSClientConfig: cfg}}
	resp, err := hc.Get(url)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func TestClientConfig_File(t *testing.T) {
	dir := t.TempDir()
	srv := serverCA(t, dir, "ca.pem")

	if err := get(t, srv.URL); err == nil {
		t.Fatal("request should fail without the private CA")
	}
	if err := get(t, srv.URL, filepath.Join(dir, "ca.pem")); err != nil {
		t.Errorf("request with the private CA failed: %v", err)
	}
}

func TestClientConfig_Dir(t *testing.T) {
	dir := t.TempDir()
	srv := serverCA(t, dir, "pod.CRT")
	os.WriteFile(filepath.Join(dir, "README"), []byte("not a cert"), 0644)

	if err := get(t, srv.URL, dir, ""); err != nil {
		t.Errorf("request with a CA directory failed: %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.pem")
	os.WriteFile(junk, []byte("-----BEGIN KEY-----\nAAAA\n-----END KEY-----\n"), 0644)
	broken := filepath.Join(dir, "broken.pem")
	os.WriteFile(broken, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte("x")}), 0644)
	empty := t.TempDir()

	tests := []struct {
		name    string
		path    string
		noCerts bool
	}{
		{"missing", filepath.Join(dir, "absent.pem"), false},
		{"no certificate block", junk, true},
		{"unparsable", broken, false},
		{"empty dir", empty, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if got := errors.Is(err, ErrNoCertsFound); got != tt.noCerts {
				t.Errorf("errors.Is(%v, ErrNoCertsFound) = %v, want %v", err, got, tt.noCerts)
			}
		})
	}
}

func TestLoad_NoPaths(t *testing.T) {
	pool, err := Load()
	if err != nil || pool == nil {
		t.Errorf("Load() = %v, %v", pool, err)
	}
}
