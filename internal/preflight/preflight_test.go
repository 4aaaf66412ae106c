package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showstub/internal/config"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := CheckDirectoryAccess("Library root", dir)
	if !result.Passed {
		t.Fatalf("expected pass for writable dir: %+v", result)
	}

	result = CheckDirectoryAccess("Library root", filepath.Join(dir, "missing"))
	if result.Passed || !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("expected missing-dir failure: %+v", result)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result = CheckDirectoryAccess("Library root", file)
	if result.Passed || !strings.Contains(result.Detail, "not a directory") {
		t.Fatalf("expected non-dir failure: %+v", result)
	}
}

func TestCheckSonarr(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/system/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"version":"4.0.0"}`))
	}))
	defer server.Close()

	result := CheckSonarr(context.Background(), config.Sonarr{Name: "main", URL: server.URL, APIKey: "good-key"})
	if !result.Passed {
		t.Fatalf("expected pass: %+v", result)
	}
	if result.Name != "Sonarr (main)" {
		t.Fatalf("result name = %q", result.Name)
	}

	result = CheckSonarr(context.Background(), config.Sonarr{Name: "main", URL: server.URL, APIKey: "bad-key"})
	if result.Passed || !strings.Contains(result.Detail, "auth failed") {
		t.Fatalf("expected auth failure: %+v", result)
	}

	result = CheckSonarr(context.Background(), config.Sonarr{Name: "main", URL: server.URL})
	if result.Passed || result.Detail != "missing api key" {
		t.Fatalf("expected missing key failure: %+v", result)
	}
}

func TestCheckPlex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/identity" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"MediaContainer":{}}`))
	}))
	defer server.Close()

	result := CheckPlex(context.Background(), config.Plex{URL: server.URL, Token: "tok"})
	if !result.Passed {
		t.Fatalf("expected pass: %+v", result)
	}

	result = CheckPlex(context.Background(), config.Plex{Token: "tok"})
	if result.Passed || result.Detail != "missing url" {
		t.Fatalf("expected missing url failure: %+v", result)
	}
}

func TestRunAllSkipsDisabledPlex(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Paths.LibraryRoot = dir
	cfg.Paths.OutputFile = filepath.Join(dir, "overlays", "returning.yml")
	cfg.Sonarr = []config.Sonarr{{Name: "main", URL: "", APIKey: ""}}
	cfg.Plex.Enabled = false

	results := RunAll(context.Background(), cfg)
	// Library root, output dir, one sonarr instance. No plex entry.
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}
	for _, result := range results {
		if result.Name == "Plex" {
			t.Fatal("plex checked while disabled")
		}
	}
	if AllPassed(results) {
		t.Fatal("expected failures for unconfigured instance and missing output dir")
	}
}
