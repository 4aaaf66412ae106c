package preflight

import (
	"context"
	"path/filepath"

	"showstub/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Connectivity checks are only run for configured endpoints.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Library root", cfg.Paths.LibraryRoot))
	results = append(results, CheckDirectoryAccess("Overlay output directory", filepath.Dir(cfg.Paths.OutputFile)))

	for _, instance := range cfg.Sonarr {
		results = append(results, CheckSonarr(ctx, instance))
	}

	if cfg.Plex.Enabled {
		results = append(results, CheckPlex(ctx, cfg.Plex))
	}

	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
