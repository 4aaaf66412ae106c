package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and output locations.
type Paths struct {
	LibraryRoot string `toml:"library_root"`
	OutputFile  string `toml:"output_file"`
	LogDir      string `toml:"log_dir"`
	StateDir    string `toml:"state_dir"`
}

// Stub contains placeholder file settings.
type Stub struct {
	Suffix         string `toml:"suffix"`
	TemplateFile   string `toml:"template_file"`
	SeasonFolder   string `toml:"season_folder"`
	WritePlexMatch bool   `toml:"write_plexmatch"`
}

// Sonarr describes one inventory instance. Multiple [[sonarr]] blocks are
// processed in order during a reconciliation pass.
type Sonarr struct {
	Name            string `toml:"name"`
	URL             string `toml:"url"`
	APIKey          string `toml:"api_key"`
	Tag             string `toml:"tag"`
	RequestTimeout  int    `toml:"request_timeout"`
	EnforceSettings bool   `toml:"enforce_settings"`
}

// Plex contains media-server connection settings. The synchronizer is
// skipped entirely when Enabled is false.
type Plex struct {
	Enabled        bool   `toml:"enabled"`
	URL            string `toml:"url"`
	Token          string `toml:"token"`
	Library        string `toml:"library"`
	Label          string `toml:"label"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Overlay contains settings for the emitted Kometa overlay document.
type Overlay struct {
	Key       string `toml:"key"`
	Text      string `toml:"text"`
	StyleFile string `toml:"style_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for showstub.
//
// Configuration sections by subsystem:
//   - Paths: library root, overlay output file, log and state directories
//   - Stub: placeholder naming, template source, .plexmatch sidecar
//   - Sonarr: one block per inventory instance
//   - Plex: media-server labeling and watch-state sync
//   - Overlay: emitted overlay key, text, and style override file
//   - Logging: log format and level
type Config struct {
	Paths   Paths    `toml:"paths"`
	Stub    Stub     `toml:"stub"`
	Sonarr  []Sonarr `toml:"sonarr"`
	Plex    Plex     `toml:"plex"`
	Overlay Overlay  `toml:"overlay"`
	Logging Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/showstub/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A file that exists but
// cannot be parsed or validated is a fatal error for the caller.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("showstub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a reconciliation pass writes to.
// LibraryRoot is created on a best-effort basis so config load still works
// when external storage is temporarily offline.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, c.Paths.StateDir}
	if strings.TrimSpace(c.Paths.OutputFile) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.OutputFile))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryRoot) != "" {
		_ = os.MkdirAll(c.Paths.LibraryRoot, 0o755)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
