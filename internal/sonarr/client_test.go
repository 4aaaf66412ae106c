package sonarr

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"showstub/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(t *testing.T, handler http.Handler, tag string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.Sonarr{
		Name:           "test",
		URL:            server.URL,
		APIKey:         "key",
		Tag:            tag,
		RequestTimeout: 5,
	}, testLogger())
}

func TestListShows(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key" {
			t.Errorf("missing api key header")
		}
		if r.URL.Path != "/api/v3/series" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]Show{
			{ID: 1, Title: "Severance", Status: "continuing", Monitored: true, TVDBID: 371980, Path: "/tv/Severance (2022)"},
			{ID: 2, Title: "Dark", Status: "ended", Monitored: false, TVDBID: 332484, Path: "/tv/Dark (2017)"},
		})
	}), "")

	shows, err := client.ListShows(context.Background())
	if err != nil {
		t.Fatalf("ListShows failed: %v", err)
	}
	if len(shows) != 2 {
		t.Fatalf("expected 2 shows, got %d", len(shows))
	}
	if !shows[0].Active() {
		t.Error("continuing show should be active")
	}
	if !shows[1].Ended() {
		t.Error("ended show should report Ended")
	}
}

func TestListShowsTagFilter(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/tag":
			_, _ = w.Write([]byte(`[{"id":4,"label":"Stub"},{"id":7,"label":"other"}]`))
		case "/api/v3/series":
			_ = json.NewEncoder(w).Encode([]Show{
				{ID: 1, Title: "Tagged", Tags: []int64{4}},
				{ID: 2, Title: "Untagged", Tags: []int64{7}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), "stub")

	shows, err := client.ListShows(context.Background())
	if err != nil {
		t.Fatalf("ListShows failed: %v", err)
	}
	if len(shows) != 1 || shows[0].Title != "Tagged" {
		t.Fatalf("tag filter wrong: %+v", shows)
	}
}

func TestListShowsMissingTag(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v3/tag" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		t.Errorf("series must not be fetched when the tag is missing")
	}), "nope")

	_, err := client.ListShows(context.Background())
	if !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}

func TestEnforceSettingsUpdatesOnlyWhenNeeded(t *testing.T) {
	var putBody map[string]any
	puts := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/config/mediamanagement" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":1,"createEmptySeriesFolders":false,"deleteEmptyFolders":true,"recycleBin":"/bin"}`))
		case http.MethodPut:
			puts++
			if err := json.NewDecoder(r.Body).Decode(&putBody); err != nil {
				t.Fatal(err)
			}
			_, _ = w.Write([]byte(`{}`))
		}
	}), "")

	if err := client.EnforceSettings(context.Background()); err != nil {
		t.Fatalf("EnforceSettings failed: %v", err)
	}
	if puts != 1 {
		t.Fatalf("expected one PUT, got %d", puts)
	}
	if putBody["createEmptySeriesFolders"] != true || putBody["deleteEmptyFolders"] != false {
		t.Fatalf("wrong enforced values: %+v", putBody)
	}
	// Unrelated settings survive the round trip.
	if putBody["recycleBin"] != "/bin" {
		t.Fatalf("unrelated setting dropped: %+v", putBody)
	}
}

func TestEnforceSettingsNoopWhenAlreadyCorrect(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			t.Error("no PUT expected when settings already enforced")
		}
		_, _ = w.Write([]byte(`{"createEmptySeriesFolders":true,"deleteEmptyFolders":false}`))
	}), "")

	if err := client.EnforceSettings(context.Background()); err != nil {
		t.Fatalf("EnforceSettings failed: %v", err)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}), "")

	if _, err := client.ListShows(context.Background()); err == nil {
		t.Fatal("expected error on 401")
	}
}
