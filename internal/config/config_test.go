package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showstub/internal/config"
)

func TestLoadDefaultsExpandPathsAndUseEnvKeys(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SONARR_API_KEY", "env-key")

	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[[sonarr]]
url = "http://localhost:8989"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Paths.LibraryRoot != filepath.Join(tempHome, "tv") {
		t.Fatalf("unexpected library root: %q", cfg.Paths.LibraryRoot)
	}
	if !strings.HasPrefix(cfg.Paths.OutputFile, tempHome) {
		t.Fatalf("expected output file under temp home, got %q", cfg.Paths.OutputFile)
	}
	if len(cfg.Sonarr) != 1 {
		t.Fatalf("expected one sonarr instance, got %d", len(cfg.Sonarr))
	}
	if cfg.Sonarr[0].APIKey != "env-key" {
		t.Fatalf("expected api key from env, got %q", cfg.Sonarr[0].APIKey)
	}
	if cfg.Sonarr[0].Name != "sonarr-1" {
		t.Fatalf("expected generated instance name, got %q", cfg.Sonarr[0].Name)
	}
	if cfg.Sonarr[0].RequestTimeout != 10 {
		t.Fatalf("unexpected request timeout: %d", cfg.Sonarr[0].RequestTimeout)
	}
	if cfg.Plex.Enabled {
		t.Fatal("expected plex disabled by default")
	}
	if cfg.Stub.Suffix != " - kometa-overlay-lock.mp4" {
		t.Fatalf("unexpected stub suffix: %q", cfg.Stub.Suffix)
	}
	if cfg.Overlay.Key != "returning_soon" {
		t.Fatalf("unexpected overlay key: %q", cfg.Overlay.Key)
	}
	if cfg.Logging.Format != "auto" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	// The overlay output parent must exist too, or the first run of a
	// fresh install fails its directory preflight before emitting anything.
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir, filepath.Dir(cfg.Paths.OutputFile)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be a directory", dir)
		}
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	os.Unsetenv("SONARR_API_KEY")
	os.Unsetenv("PLEX_TOKEN")

	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[stub]
suffix = " - lock.txt"

[[sonarr]]
name = "a"
url = "not-a-url"

[plex]
enabled = true
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{
		"stub.suffix",
		`sonarr "a": url`,
		`sonarr "a": api_key`,
		"plex.url must be set",
		"plex.token must be set",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}

func TestLoadMissingFileUsesDefaultsButFailsValidation(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	// Defaults contain no sonarr instance, which is a validation error.
	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected validation error for empty instance list")
	}
	if !strings.Contains(err.Error(), "[[sonarr]]") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsUnparseableFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(configPath, []byte("[[[["), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SONARR_API_KEY", "sample-key")

	target := filepath.Join(tempHome, "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if len(cfg.Sonarr) != 1 || cfg.Sonarr[0].Name != "main" {
		t.Fatalf("unexpected sonarr instances: %+v", cfg.Sonarr)
	}
}
