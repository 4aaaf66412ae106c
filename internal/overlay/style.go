package overlay

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultStyle returns the built-in presentation attributes for the overlay
// banner. Every attribute can be replaced through a style file; a null value
// there keeps the default.
func DefaultStyle() map[string]any {
	return map[string]any{
		"horizontal_align":  "center",
		"vertical_align":    "top",
		"horizontal_offset": 0,
		"vertical_offset":   50,
		"font_size":         70,
		"font_color":        "#FFFFFF",
		"back_color":        "#000000B3",
		"back_width":        1000,
		"back_height":       110,
	}
}

// MergeStyles overlays overrides on defaults attribute by attribute. A nil
// override value means "inherit the default", so a style file can reset a
// single attribute with an explicit null without redeclaring the rest.
// Neither input map is mutated.
func MergeStyles(defaults, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(overrides))
	for key, value := range defaults {
		merged[key] = value
	}
	for key, value := range overrides {
		if value == nil {
			continue
		}
		merged[key] = value
	}
	return merged
}

// ValidateFont drops the font attribute when the referenced file does not
// exist, falling back to the renderer's built-in font instead of failing the
// whole run over a missing file.
func ValidateFont(style map[string]any, logger *slog.Logger) {
	font, ok := style["font"].(string)
	if !ok || font == "" {
		return
	}
	if _, err := os.Stat(font); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("font file not found, using renderer default",
			slog.String("font", font))
		delete(style, "font")
	}
}

// LoadStyleFile reads style overrides from a YAML file. An empty path means
// no overrides.
func LoadStyleFile(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style file: %w", err)
	}
	overrides := make(map[string]any)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse style file %s: %w", path, err)
	}
	return overrides, nil
}
