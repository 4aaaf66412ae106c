package plex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// ErrNotInCatalog is the typed no-match result for a show the server has not
// scanned yet. Callers log it and move on; the next pass retries.
var ErrNotInCatalog = errors.New("show not in plex catalog")

// Synchronizer mirrors reconciliation decisions into the Plex catalog:
// marker label on the show, synthetic watch state on the stub episode.
type Synchronizer struct {
	client     *Client
	library    string
	label      string
	stubSuffix string
	logger     *slog.Logger

	mu         sync.Mutex
	sectionKey string
}

// NewSynchronizer builds a synchronizer on top of a Plex client.
func NewSynchronizer(client *Client, library, label, stubSuffix string, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		client:     client,
		library:    library,
		label:      label,
		stubSuffix: stubSuffix,
		logger:     logger.With(slog.String("component", "plex")),
	}
}

// SyncShow locates the show by title and external identifier, applies the
// marker label if absent, and marks the stub episode watched. Only the
// episode whose backing file ends with the stub suffix is ever touched;
// real episodes are never auto-marked. ErrNotInCatalog means the show is
// not scanned yet and is not a failure.
func (s *Synchronizer) SyncShow(ctx context.Context, tvdbID int64, title string) error {
	sectionKey, err := s.ensureSectionKey(ctx)
	if err != nil {
		return err
	}

	item, err := s.findShow(ctx, sectionKey, tvdbID, title)
	if err != nil {
		return err
	}

	if err := s.ensureLabel(ctx, sectionKey, item); err != nil {
		return err
	}
	return s.markStubWatched(ctx, item)
}

func (s *Synchronizer) ensureSectionKey(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sectionKey != "" {
		return s.sectionKey, nil
	}
	key, err := s.client.SectionKey(ctx, s.library)
	if err != nil {
		return "", err
	}
	s.sectionKey = key
	return key, nil
}

// findShow searches by title and keeps the first candidate whose
// cross-references carry the target tvdb id. Title search alone is never
// trusted: two shows can share a title, the external id cannot.
func (s *Synchronizer) findShow(ctx context.Context, sectionKey string, tvdbID int64, title string) (Item, error) {
	items, err := s.client.SearchShows(ctx, sectionKey, title)
	if err != nil {
		return Item{}, err
	}
	for _, item := range items {
		if MatchesExternalID(item, NamespaceTVDB, tvdbID) {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %s (tvdb %d)", ErrNotInCatalog, title, tvdbID)
}

func (s *Synchronizer) ensureLabel(ctx context.Context, sectionKey string, item Item) error {
	for _, label := range item.Labels {
		if strings.EqualFold(label.Tag, s.label) {
			s.logger.Debug("label already applied",
				slog.String("title", item.Title),
				slog.String("label", s.label))
			return nil
		}
	}
	if err := s.client.AddLabel(ctx, sectionKey, item.RatingKey, s.label); err != nil {
		return err
	}
	s.logger.Info("applied label",
		slog.String("title", item.Title),
		slog.String("label", s.label))
	return nil
}

func (s *Synchronizer) markStubWatched(ctx context.Context, item Item) error {
	episodes, err := s.client.Episodes(ctx, item.RatingKey)
	if err != nil {
		return err
	}

	for _, episode := range episodes {
		if !s.isStubEpisode(episode) {
			continue
		}
		if episode.ViewCount > 0 {
			s.logger.Debug("stub episode already watched", slog.String("title", item.Title))
			return nil
		}
		if err := s.client.MarkWatched(ctx, episode.RatingKey); err != nil {
			return err
		}
		s.logger.Info("marked stub episode watched",
			slog.String("title", item.Title),
			slog.String("episode", episode.Title))
		return nil
	}

	// Stub file exists on disk but Plex has not indexed it yet.
	s.logger.Debug("stub episode not in catalog yet", slog.String("title", item.Title))
	return nil
}

func (s *Synchronizer) isStubEpisode(episode Episode) bool {
	for _, media := range episode.Media {
		for _, part := range media.Parts {
			if strings.HasSuffix(part.File, s.stubSuffix) {
				return true
			}
		}
	}
	return false
}
