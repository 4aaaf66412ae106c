package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"showstub/internal/config"
)

const userAgent = "showstub/0.1"

// ErrLibraryNotFound is returned when the configured library name matches no
// section on the server.
var ErrLibraryNotFound = errors.New("plex library not found")

// Section is one Plex library section.
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// GUIDRef is one structured cross-reference identifier on an item, e.g.
// "tvdb://371980".
type GUIDRef struct {
	ID string `json:"id"`
}

// LabelRef is one label applied to an item.
type LabelRef struct {
	Tag string `json:"tag"`
}

// Item is a show-level catalog record.
type Item struct {
	RatingKey string     `json:"ratingKey"`
	Title     string     `json:"title"`
	GUID      string     `json:"guid"`
	GUIDs     []GUIDRef  `json:"Guid"`
	Labels    []LabelRef `json:"Label"`
}

// Part is one backing file of a media version.
type Part struct {
	File string `json:"file"`
}

// Media is one version of an episode.
type Media struct {
	Parts []Part `json:"Part"`
}

// Episode is one leaf record under a show.
type Episode struct {
	RatingKey string  `json:"ratingKey"`
	Title     string  `json:"title"`
	ViewCount int     `json:"viewCount"`
	Media     []Media `json:"Media"`
}

// Client talks to the Plex HTTP API with a fixed token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a Plex client from configuration.
func NewClient(cfg config.Plex, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second},
		logger:     logger.With(slog.String("component", "plex")),
	}
}

// SectionKey resolves the section key for a library by name. Comparison is
// caseless (Unicode case folding) so "tv shows" finds "TV Shows".
func (c *Client) SectionKey(ctx context.Context, library string) (string, error) {
	var payload struct {
		MediaContainer struct {
			Directory []Section `json:"Directory"`
		} `json:"MediaContainer"`
	}
	if err := c.getJSON(ctx, "/library/sections", nil, &payload); err != nil {
		return "", fmt.Errorf("fetch sections: %w", err)
	}

	fold := cases.Fold()
	want := fold.String(library)
	for _, section := range payload.MediaContainer.Directory {
		if fold.String(section.Title) == want {
			return section.Key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrLibraryNotFound, library)
}

// SearchShows queries a section for show items whose title matches the
// query. Structured GUIDs are requested so external-id extraction has the
// richest input available.
func (c *Client) SearchShows(ctx context.Context, sectionKey, title string) ([]Item, error) {
	params := url.Values{}
	params.Set("type", "2")
	params.Set("title", title)
	params.Set("includeGuids", "1")

	var payload struct {
		MediaContainer struct {
			Metadata []Item `json:"Metadata"`
		} `json:"MediaContainer"`
	}
	path := fmt.Sprintf("/library/sections/%s/all", sectionKey)
	if err := c.getJSON(ctx, path, params, &payload); err != nil {
		return nil, fmt.Errorf("search shows: %w", err)
	}
	return payload.MediaContainer.Metadata, nil
}

// Episodes lists every leaf episode under a show.
func (c *Client) Episodes(ctx context.Context, ratingKey string) ([]Episode, error) {
	var payload struct {
		MediaContainer struct {
			Metadata []Episode `json:"Metadata"`
		} `json:"MediaContainer"`
	}
	path := fmt.Sprintf("/library/metadata/%s/allLeaves", ratingKey)
	if err := c.getJSON(ctx, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch episodes: %w", err)
	}
	return payload.MediaContainer.Metadata, nil
}

// AddLabel applies a label to a show via the section edit endpoint. The
// label field is locked so library scans do not strip it again.
func (c *Client) AddLabel(ctx context.Context, sectionKey, ratingKey, label string) error {
	params := url.Values{}
	params.Set("type", "2")
	params.Set("id", ratingKey)
	params.Set("label[0].tag.tag", label)
	params.Set("label.locked", "1")

	path := fmt.Sprintf("/library/sections/%s/all", sectionKey)
	if err := c.request(ctx, http.MethodPut, path, params); err != nil {
		return fmt.Errorf("add label: %w", err)
	}
	return nil
}

// MarkWatched scrobbles an episode, setting its watch state.
func (c *Client) MarkWatched(ctx context.Context, ratingKey string) error {
	params := url.Values{}
	params.Set("key", ratingKey)
	params.Set("identifier", "com.plexapp.plugins.library")

	if err := c.request(ctx, http.MethodGet, "/:/scrobble", params); err != nil {
		return fmt.Errorf("mark watched: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, params)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("plex returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) request(ctx context.Context, method, path string, params url.Values) error {
	req, err := c.newRequest(ctx, method, path, params)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("plex returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}
