package sonarr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"showstub/internal/config"
)

const userAgent = "showstub/0.1"

// Show lifecycle statuses as reported by the Sonarr v3 API.
const (
	StatusContinuing = "continuing"
	StatusUpcoming   = "upcoming"
	StatusEnded      = "ended"
)

// Show is one series record from the inventory. It is read fresh on every
// reconciliation pass and never mutated locally.
type Show struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Status    string  `json:"status"`
	Monitored bool    `json:"monitored"`
	TVDBID    int64   `json:"tvdbId"`
	TMDBID    int64   `json:"tmdbId"`
	Year      int     `json:"year"`
	Path      string  `json:"path"`
	Tags      []int64 `json:"tags"`
}

// Active reports whether the show's lifecycle status still expects new
// episodes.
func (s Show) Active() bool {
	switch strings.ToLower(s.Status) {
	case StatusContinuing, StatusUpcoming:
		return true
	}
	return false
}

// Ended reports whether the show's lifecycle has finished.
func (s Show) Ended() bool {
	return strings.EqualFold(s.Status, StatusEnded)
}

type tag struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// ErrTagNotFound is returned when a configured tag label does not exist on
// the instance. The orchestrator treats it as an instance-level failure so
// a typo cannot silently process the whole library.
var ErrTagNotFound = errors.New("tag not found")

// Client talks to one Sonarr instance.
type Client struct {
	name       string
	baseURL    string
	apiKey     string
	tagLabel   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client for one configured instance.
func NewClient(cfg config.Sonarr, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		name:       cfg.Name,
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		tagLabel:   cfg.Tag,
		httpClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second},
		logger:     logger.With(slog.String("component", "sonarr"), slog.String("instance", cfg.Name)),
	}
}

// Name identifies the instance in logs and run records.
func (c *Client) Name() string { return c.name }

// ListShows fetches the full series inventory. When a tag label is
// configured, only series carrying that tag are returned; the tag id is
// resolved per call so label edits in Sonarr take effect on the next pass.
func (c *Client) ListShows(ctx context.Context) ([]Show, error) {
	var tagID int64 = -1
	if c.tagLabel != "" {
		id, err := c.resolveTag(ctx)
		if err != nil {
			return nil, err
		}
		tagID = id
	}

	var shows []Show
	if err := c.getJSON(ctx, "/api/v3/series", &shows); err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}

	if tagID < 0 {
		return shows, nil
	}
	filtered := shows[:0]
	for _, show := range shows {
		if show.HasTag(tagID) {
			filtered = append(filtered, show)
		}
	}
	c.logger.Debug("tag filter applied",
		slog.String("tag", c.tagLabel),
		slog.Int("matched", len(filtered)))
	return filtered, nil
}

// HasTag reports whether the show carries the given tag id.
func (s Show) HasTag(id int64) bool {
	for _, t := range s.Tags {
		if t == id {
			return true
		}
	}
	return false
}

func (c *Client) resolveTag(ctx context.Context) (int64, error) {
	var tags []tag
	if err := c.getJSON(ctx, "/api/v3/tag", &tags); err != nil {
		return 0, fmt.Errorf("fetch tags: %w", err)
	}
	for _, t := range tags {
		if strings.EqualFold(t.Label, c.tagLabel) {
			return t.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrTagNotFound, c.tagLabel)
}

// EnforceSettings ensures the instance keeps creating empty series folders
// and never auto-deletes them. Both are load-bearing for the stub workflow:
// the first gives every monitored show a directory, the second keeps a
// directory alive after stubs are cleaned. The media-management document is
// round-tripped as a raw object so unrelated settings are preserved.
func (c *Client) EnforceSettings(ctx context.Context) error {
	var settings map[string]any
	if err := c.getJSON(ctx, "/api/v3/config/mediamanagement", &settings); err != nil {
		return fmt.Errorf("fetch media management settings: %w", err)
	}

	create, _ := settings["createEmptySeriesFolders"].(bool)
	remove, _ := settings["deleteEmptyFolders"].(bool)
	if create && !remove {
		return nil
	}

	settings["createEmptySeriesFolders"] = true
	settings["deleteEmptyFolders"] = false
	if err := c.putJSON(ctx, "/api/v3/config/mediamanagement", settings); err != nil {
		return fmt.Errorf("update media management settings: %w", err)
	}
	c.logger.Info("enforced media management settings",
		slog.Bool("create_empty_folders", true),
		slog.Bool("delete_empty_folders", false))
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sonarr returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
