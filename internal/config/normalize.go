package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStub(); err != nil {
		return err
	}
	c.normalizeSonarr()
	c.normalizePlex()
	c.normalizeOverlay()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryRoot, err = expandPath(c.Paths.LibraryRoot); err != nil {
		return fmt.Errorf("paths.library_root: %w", err)
	}
	if c.Paths.OutputFile, err = expandPath(c.Paths.OutputFile); err != nil {
		return fmt.Errorf("paths.output_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStub() error {
	if c.Stub.Suffix == "" {
		c.Stub.Suffix = defaultStubSuffix
	}
	c.Stub.SeasonFolder = strings.TrimSpace(c.Stub.SeasonFolder)
	if c.Stub.SeasonFolder == "" {
		c.Stub.SeasonFolder = defaultSeasonFolder
	}
	if strings.TrimSpace(c.Stub.TemplateFile) != "" {
		expanded, err := expandPath(c.Stub.TemplateFile)
		if err != nil {
			return fmt.Errorf("stub.template_file: %w", err)
		}
		c.Stub.TemplateFile = expanded
	} else {
		c.Stub.TemplateFile = ""
	}
	return nil
}

func (c *Config) normalizeSonarr() {
	for i := range c.Sonarr {
		inst := &c.Sonarr[i]
		inst.Name = strings.TrimSpace(inst.Name)
		if inst.Name == "" {
			inst.Name = fmt.Sprintf("sonarr-%d", i+1)
		}
		inst.URL = strings.TrimRight(strings.TrimSpace(inst.URL), "/")
		inst.APIKey = strings.TrimSpace(inst.APIKey)
		if inst.APIKey == "" {
			if value, ok := os.LookupEnv("SONARR_API_KEY"); ok {
				inst.APIKey = strings.TrimSpace(value)
			}
		}
		inst.Tag = strings.TrimSpace(inst.Tag)
		if inst.RequestTimeout <= 0 {
			inst.RequestTimeout = defaultRequestTimeout
		}
	}
}

func (c *Config) normalizePlex() {
	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	if c.Plex.Token == "" {
		if value, ok := os.LookupEnv("PLEX_TOKEN"); ok {
			c.Plex.Token = strings.TrimSpace(value)
		}
	}
	c.Plex.Library = strings.TrimSpace(c.Plex.Library)
	if c.Plex.Library == "" {
		c.Plex.Library = defaultPlexLibrary
	}
	c.Plex.Label = strings.TrimSpace(c.Plex.Label)
	if c.Plex.Label == "" {
		c.Plex.Label = defaultPlexLabel
	}
	if c.Plex.RequestTimeout <= 0 {
		c.Plex.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeOverlay() {
	c.Overlay.Key = strings.TrimSpace(c.Overlay.Key)
	if c.Overlay.Key == "" {
		c.Overlay.Key = defaultOverlayKey
	}
	c.Overlay.Text = strings.TrimSpace(c.Overlay.Text)
	if c.Overlay.Text == "" {
		c.Overlay.Text = defaultOverlayText
	}
	if strings.TrimSpace(c.Overlay.StyleFile) != "" {
		if expanded, err := expandPath(c.Overlay.StyleFile); err == nil {
			c.Overlay.StyleFile = expanded
		}
	} else {
		c.Overlay.StyleFile = ""
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "auto":
		c.Logging.Format = "auto"
	case "console", "json":
	default:
		c.Logging.Format = "auto"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
