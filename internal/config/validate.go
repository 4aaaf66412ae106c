package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. All problems are collected
// and reported together so a misconfigured file surfaces every missing or
// invalid field in one pass instead of failing on the first access.
func (c *Config) Validate() error {
	var issues []string

	issues = append(issues, c.validatePaths()...)
	issues = append(issues, c.validateStub()...)
	issues = append(issues, c.validateSonarr()...)
	issues = append(issues, c.validatePlex()...)

	if len(issues) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(issues, "\n  - "))
}

func (c *Config) validatePaths() []string {
	var issues []string
	if strings.TrimSpace(c.Paths.LibraryRoot) == "" {
		issues = append(issues, "paths.library_root must be set")
	}
	if strings.TrimSpace(c.Paths.OutputFile) == "" {
		issues = append(issues, "paths.output_file must be set")
	}
	return issues
}

func (c *Config) validateStub() []string {
	var issues []string
	if !hasVideoExtension(c.Stub.Suffix) {
		issues = append(issues, fmt.Sprintf("stub.suffix %q must end in a recognized video extension", c.Stub.Suffix))
	}
	return issues
}

func (c *Config) validateSonarr() []string {
	var issues []string
	if len(c.Sonarr) == 0 {
		issues = append(issues, "at least one [[sonarr]] instance must be configured")
	}
	for _, inst := range c.Sonarr {
		if inst.URL == "" {
			issues = append(issues, fmt.Sprintf("sonarr %q: url must be set", inst.Name))
		} else if !validHTTPURL(inst.URL) {
			issues = append(issues, fmt.Sprintf("sonarr %q: url %q must start with http:// or https://", inst.Name, inst.URL))
		}
		if inst.APIKey == "" {
			issues = append(issues, fmt.Sprintf("sonarr %q: api_key must be set (or export SONARR_API_KEY)", inst.Name))
		}
	}
	return issues
}

func (c *Config) validatePlex() []string {
	if !c.Plex.Enabled {
		return nil
	}
	var issues []string
	if c.Plex.URL == "" {
		issues = append(issues, "plex.url must be set when plex.enabled is true")
	} else if !validHTTPURL(c.Plex.URL) {
		issues = append(issues, fmt.Sprintf("plex.url %q must start with http:// or https://", c.Plex.URL))
	}
	if c.Plex.Token == "" {
		issues = append(issues, "plex.token must be set when plex.enabled is true (or export PLEX_TOKEN)")
	}
	return issues
}

func validHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

var videoExtensions = []string{".mkv", ".mp4", ".avi", ".m4v", ".mov", ".wmv"}

func hasVideoExtension(name string) bool {
	lowered := strings.ToLower(name)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}
