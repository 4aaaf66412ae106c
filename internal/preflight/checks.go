package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"showstub/internal/config"
)

const checkTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSonarr verifies Sonarr connectivity and API key validity for one
// instance.
func CheckSonarr(ctx context.Context, cfg config.Sonarr) Result {
	name := fmt.Sprintf("Sonarr (%s)", cfg.Name)

	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Result{Name: name, Detail: "missing api key"}
	}

	return checkEndpoint(ctx, name, base+"/api/v3/system/status", "X-Api-Key", cfg.APIKey)
}

// CheckPlex verifies Plex connectivity and token validity.
func CheckPlex(ctx context.Context, cfg config.Plex) Result {
	const name = "Plex"

	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return Result{Name: name, Detail: "missing token"}
	}

	return checkEndpoint(ctx, name, base+"/identity", "X-Plex-Token", cfg.Token)
}

func checkEndpoint(ctx context.Context, name, endpoint, header, secret string) Result {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	client := &http.Client{Timeout: checkTimeout}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%v)", err)}
	}
	req.Header.Set(header, strings.TrimSpace(secret))

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%v)", err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Detail: "auth failed (invalid credentials)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%d)", resp.StatusCode)}
	}
}
