package library

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// PlexMatchFile is the fixed-name sidecar that forces correct identification
// of an otherwise-empty show folder in Plex.
const PlexMatchFile = ".plexmatch"

// stubPayloadSize is the size of the synthetic placeholder written when no
// template file is available. The payload is zero-filled: enough to be
// scanned as a video file by extension, but not a playable container.
const stubPayloadSize = 64 * 1024

// Manager owns the placeholder lifecycle inside show directories.
type Manager struct {
	Suffix       string
	TemplateFile string
	SeasonFolder string

	logger *slog.Logger
}

// NewManager constructs a stub manager. The template file may be empty or
// missing; creation then degrades to a synthetic payload.
func NewManager(suffix, templateFile, seasonFolder string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		Suffix:       suffix,
		TemplateFile: templateFile,
		SeasonFolder: seasonFolder,
		logger:       logger.With(slog.String("component", "stub")),
	}
}

// StubPath returns the placeholder path for a show directory and title.
// The file lives in the season folder and is pinned to the S00E99 slot so it
// never collides with a real episode.
func (m *Manager) StubPath(showDir, title string) string {
	name := fmt.Sprintf("%s - S00E99%s", SanitizeTitle(title), m.Suffix)
	return filepath.Join(showDir, m.SeasonFolder, name)
}

// EnsureStub creates the placeholder for a show if it does not already
// exist, creating the show and season directories on demand. It reports
// whether a file was created; re-running never duplicates or rewrites an
// existing stub.
func (m *Manager) EnsureStub(showDir, title string) (bool, error) {
	target := m.StubPath(showDir, title)

	if _, err := os.Stat(target); err == nil {
		m.logger.Debug("stub already present", slog.String("path", target))
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat stub: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, fmt.Errorf("create season directory: %w", err)
	}

	if m.TemplateFile != "" {
		if _, err := os.Stat(m.TemplateFile); err == nil {
			if err := copyFile(m.TemplateFile, target); err != nil {
				return false, fmt.Errorf("copy template: %w", err)
			}
			m.logger.Info("created stub from template", slog.String("path", target))
			return true, nil
		}
	}

	// Degraded path: the file satisfies media scans by extension only.
	if err := os.WriteFile(target, make([]byte, stubPayloadSize), 0o644); err != nil {
		return false, fmt.Errorf("write synthetic stub: %w", err)
	}
	m.logger.Warn("template missing, wrote synthetic stub payload",
		slog.String("path", target),
		slog.String("template", m.TemplateFile))
	return true, nil
}

// CleanStubs deletes every file under showDir whose name ends with the stub
// suffix. When removePlexMatch is set the identification sidecar is removed
// as well. Calling on a missing directory is a no-op.
func (m *Manager) CleanStubs(showDir string, removePlexMatch bool) (int, error) {
	removed := 0
	err := filepath.WalkDir(showDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), m.Suffix) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			m.logger.Error("remove stub failed", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		m.logger.Info("removed stub", slog.String("path", path))
		removed++
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return removed, fmt.Errorf("walk %s: %w", showDir, err)
	}

	if removePlexMatch {
		sidecar := filepath.Join(showDir, PlexMatchFile)
		if err := os.Remove(sidecar); err == nil {
			m.logger.Info("removed identification sidecar", slog.String("path", sidecar))
		} else if !errors.Is(err, fs.ErrNotExist) {
			m.logger.Error("remove sidecar failed", slog.String("path", sidecar), slog.Any("error", err))
		}
	}
	return removed, nil
}

// WritePlexMatch writes the identification sidecar for a show if absent.
// The tmdb id is what Plex keys metadata on for empty folders.
func (m *Manager) WritePlexMatch(showDir, title string, year int, tmdbID int64) error {
	if tmdbID <= 0 {
		return nil
	}
	path := filepath.Join(showDir, PlexMatchFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	content := fmt.Sprintf("Title: %s\nYear: %d\ntmdbid: %d\n", title, year, tmdbID)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", PlexMatchFile, err)
	}
	m.logger.Info("wrote identification sidecar", slog.String("path", path), slog.Int64("tmdb_id", tmdbID))
	return nil
}

// SanitizeTitle reduces a show title to a filesystem-safe name: alphanumerics,
// spaces, '.', '-', and '_' are kept, everything else is dropped.
func SanitizeTitle(title string) string {
	var builder strings.Builder
	builder.Grow(len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == ' ', r == '.', r == '-', r == '_':
			builder.WriteRune(r)
		}
	}
	return strings.TrimSpace(builder.String())
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
