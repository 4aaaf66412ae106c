package library

import (
	"os"
	"path/filepath"
	"testing"
)

const testSuffix = " - kometa-overlay-lock.mp4"

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestHasRealMediaMissingDirectory(t *testing.T) {
	if HasRealMedia(filepath.Join(t.TempDir(), "absent"), testSuffix) {
		t.Fatal("missing directory must report no real media")
	}
}

func TestHasRealMediaEmptyDirectory(t *testing.T) {
	if HasRealMedia(t.TempDir(), testSuffix) {
		t.Fatal("empty directory must report no real media")
	}
}

func TestHasRealMediaStubOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Specials", "Show - S00E99"+testSuffix))

	if HasRealMedia(dir, testSuffix) {
		t.Fatal("stub-only directory must report no real media")
	}
}

func TestHasRealMediaNonVideoFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "poster.jpg"))
	writeFile(t, filepath.Join(dir, "notes.txt"))

	if HasRealMedia(dir, testSuffix) {
		t.Fatal("non-video files must not count as real media")
	}
}

func TestHasRealMediaFindsNestedEpisode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Specials", "Show - S00E99"+testSuffix))
	writeFile(t, filepath.Join(dir, "Season 01", "Show - S01E01.MKV"))

	if !HasRealMedia(dir, testSuffix) {
		t.Fatal("expected nested real episode to be detected")
	}
}

func TestIsVideoFileCaseInsensitive(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"episode.mkv", true},
		{"episode.MP4", true},
		{"episode.WmV", true},
		{"episode.srt", false},
		{"episode", false},
	}
	for _, tc := range cases {
		if got := IsVideoFile(tc.name); got != tc.want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
