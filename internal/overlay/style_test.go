package overlay

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestMergeStylesNullMeansInherit(t *testing.T) {
	defaults := map[string]any{
		"font_size":  70,
		"font_color": "#FFFFFF",
		"back_color": "#000000B3",
	}
	overrides := map[string]any{
		"font_size":  90,
		"font_color": nil,
		"font":       "/fonts/Inter.ttf",
	}

	merged := MergeStyles(defaults, overrides)

	if merged["font_size"] != 90 {
		t.Errorf("override not applied: %v", merged["font_size"])
	}
	if merged["font_color"] != "#FFFFFF" {
		t.Errorf("null override must keep the default, got %v", merged["font_color"])
	}
	if merged["back_color"] != "#000000B3" {
		t.Errorf("untouched default changed: %v", merged["back_color"])
	}
	if merged["font"] != "/fonts/Inter.ttf" {
		t.Errorf("new key not added: %v", merged["font"])
	}
	if defaults["font_size"] != 70 {
		t.Error("defaults map was mutated")
	}
}

func TestValidateFontRemovesMissingFont(t *testing.T) {
	style := map[string]any{"font": filepath.Join(t.TempDir(), "missing.ttf"), "font_size": 70}
	ValidateFont(style, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, ok := style["font"]; ok {
		t.Error("missing font not removed")
	}
	if style["font_size"] != 70 {
		t.Error("unrelated attribute changed")
	}
}

func TestValidateFontKeepsExistingFont(t *testing.T) {
	fontPath := filepath.Join(t.TempDir(), "Inter.ttf")
	if err := os.WriteFile(fontPath, []byte("font"), 0o644); err != nil {
		t.Fatal(err)
	}
	style := map[string]any{"font": fontPath}
	ValidateFont(style, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if style["font"] != fontPath {
		t.Error("existing font removed")
	}
}

func TestLoadStyleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yml")
	content := "font_size: 90\nfont_color: null\nback_color: \"#552222\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	overrides, err := LoadStyleFile(path)
	if err != nil {
		t.Fatalf("LoadStyleFile: %v", err)
	}
	if overrides["font_size"] != 90 {
		t.Errorf("font_size = %v", overrides["font_size"])
	}
	if value, ok := overrides["font_color"]; !ok || value != nil {
		t.Errorf("explicit null must survive parsing, got %v (present %v)", value, ok)
	}
	if overrides["back_color"] != "#552222" {
		t.Errorf("back_color = %v", overrides["back_color"])
	}
}

func TestLoadStyleFileEmptyPath(t *testing.T) {
	overrides, err := LoadStyleFile("")
	if err != nil || overrides != nil {
		t.Fatalf("expected nil, nil for empty path, got %v, %v", overrides, err)
	}
}
