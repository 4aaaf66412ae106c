package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"showstub/internal/library"
	"showstub/internal/plex"
	"showstub/internal/sonarr"
)

// Source is one inventory instance feeding the pass.
type Source interface {
	Name() string
	ListShows(ctx context.Context) ([]sonarr.Show, error)
	EnforceSettings(ctx context.Context) error
}

// Syncer mirrors decisions into the media-server catalog.
type Syncer interface {
	SyncShow(ctx context.Context, tvdbID int64, title string) error
}

// Emitter writes the overlay document at the end of a pass.
type Emitter interface {
	Emit(outputPath string, tvdbIDs []int64, style map[string]any) error
}

// Observer receives every per-show decision as it is made. Used to feed the
// run history; a nil observer is fine.
type Observer func(instance string, show sonarr.Show, decision Decision, detail string)

// Instance pairs a source with its per-instance settings.
type Instance struct {
	Source  Source
	Enforce bool
}

// Options carries the pass-wide settings.
type Options struct {
	LibraryRoot    string
	StubSuffix     string
	OutputFile     string
	Style          map[string]any
	WritePlexMatch bool
	DryRun         bool
}

// Summary reports what a pass did.
type Summary struct {
	ShowsSeen       int
	StubsCreated    int
	StubsRemoved    int
	OverlayShows    int
	FailedInstances []string
}

// Orchestrator runs one reconciliation pass across all inventory instances.
type Orchestrator struct {
	instances []Instance
	stubs     *library.Manager
	syncer    Syncer
	emitter   Emitter
	observer  Observer
	opts      Options
	logger    *slog.Logger
}

// NewOrchestrator wires a pass. syncer and observer may be nil.
func NewOrchestrator(instances []Instance, stubs *library.Manager, syncer Syncer, emitter Emitter, observer Observer, opts Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		instances: instances,
		stubs:     stubs,
		syncer:    syncer,
		emitter:   emitter,
		observer:  observer,
		opts:      opts,
		logger:    logger.With(slog.String("component", "reconcile")),
	}
}

// Run executes one full pass: classify every show from every instance, fix
// up stubs and media-server state, then emit the overlay document. A failing
// instance is logged and skipped; only every instance failing makes the pass
// itself an error. The overlay is always written, explicitly empty when
// nothing qualifies, so stale overlays are retracted.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	seen := make(map[int64]struct{})
	var overlayIDs []int64

	for _, instance := range o.instances {
		name := instance.Source.Name()

		if instance.Enforce && !o.opts.DryRun {
			if err := instance.Source.EnforceSettings(ctx); err != nil {
				o.logger.Error("enforce settings failed",
					slog.String("instance", name),
					slog.Any("error", err))
			}
		}

		shows, err := instance.Source.ListShows(ctx)
		if err != nil {
			o.logger.Error("list shows failed, skipping instance",
				slog.String("instance", name),
				slog.Any("error", err))
			summary.FailedInstances = append(summary.FailedInstances, name)
			continue
		}

		for _, show := range shows {
			summary.ShowsSeen++
			ids := o.processShow(ctx, name, show, &summary)
			for _, id := range ids {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				overlayIDs = append(overlayIDs, id)
			}
		}
	}

	if len(summary.FailedInstances) == len(o.instances) && len(o.instances) > 0 {
		return summary, fmt.Errorf("all instances failed: %s", strings.Join(summary.FailedInstances, ", "))
	}

	summary.OverlayShows = len(overlayIDs)
	if o.opts.DryRun {
		o.logger.Info("dry run, overlay not written",
			slog.Int("shows", len(overlayIDs)))
		return summary, nil
	}
	if err := o.emitter.Emit(o.opts.OutputFile, overlayIDs, o.opts.Style); err != nil {
		// Emission is the terminal step; a failed write never fails the pass.
		o.logger.Error("overlay emission failed", slog.Any("error", err))
	}
	return summary, nil
}

// processShow classifies one show and applies the decision. Returns the
// overlay ids the show contributes, if any.
func (o *Orchestrator) processShow(ctx context.Context, instance string, show sonarr.Show, summary *Summary) []int64 {
	showDir := o.showDir(show)
	hasMedia := library.HasRealMedia(showDir, o.opts.StubSuffix)
	decision := Classify(show, hasMedia)

	var detail string
	switch decision {
	case DecisionFilteredOut:
		if !show.Monitored {
			detail = "unmonitored"
		} else {
			detail = "status " + show.Status
		}
		o.logger.Debug("show filtered out",
			slog.String("instance", instance),
			slog.String("title", show.Title),
			slog.String("reason", detail))

	case DecisionEnded:
		detail = o.cleanStubs(showDir, show, true, summary)

	case DecisionHasRealMedia:
		detail = o.cleanStubs(showDir, show, false, summary)

	case DecisionNeedsStub:
		detail = o.ensureStub(ctx, showDir, show, summary)
	}

	if o.observer != nil {
		o.observer(instance, show, decision, detail)
	}
	if decision == DecisionNeedsStub && show.TVDBID > 0 {
		return []int64{show.TVDBID}
	}
	return nil
}

func (o *Orchestrator) cleanStubs(showDir string, show sonarr.Show, removePlexMatch bool, summary *Summary) string {
	if o.opts.DryRun {
		return "would remove stubs"
	}
	removed, err := o.stubs.CleanStubs(showDir, removePlexMatch)
	if err != nil {
		o.logger.Error("stub cleanup failed",
			slog.String("title", show.Title),
			slog.Any("error", err))
		return "cleanup failed: " + err.Error()
	}
	summary.StubsRemoved += removed
	if removed > 0 {
		o.logger.Info("removed stubs",
			slog.String("title", show.Title),
			slog.Int("count", removed))
	}
	return fmt.Sprintf("removed %d stubs", removed)
}

func (o *Orchestrator) ensureStub(ctx context.Context, showDir string, show sonarr.Show, summary *Summary) string {
	if o.opts.DryRun {
		return "would create stub"
	}

	created, err := o.stubs.EnsureStub(showDir, show.Title)
	if err != nil {
		o.logger.Error("stub creation failed",
			slog.String("title", show.Title),
			slog.Any("error", err))
		return "stub failed: " + err.Error()
	}
	detail := "stub present"
	if created {
		summary.StubsCreated++
		detail = "stub created"
		o.logger.Info("created stub", slog.String("title", show.Title))
	}

	if o.opts.WritePlexMatch {
		if err := o.stubs.WritePlexMatch(showDir, show.Title, show.Year, show.TMDBID); err != nil {
			o.logger.Warn("plexmatch write failed",
				slog.String("title", show.Title),
				slog.Any("error", err))
		}
	}

	if o.syncer != nil {
		if err := o.syncer.SyncShow(ctx, show.TVDBID, show.Title); err != nil {
			if errors.Is(err, plex.ErrNotInCatalog) {
				o.logger.Warn("show not in plex yet",
					slog.String("title", show.Title))
			} else {
				o.logger.Error("plex sync failed",
					slog.String("title", show.Title),
					slog.Any("error", err))
			}
		}
	}
	return detail
}

// showDir maps the inventory's notion of the show path into the local
// library root. Only the final path element is trusted; the root always
// comes from local configuration since the inventory may run in a container
// with different mounts.
func (o *Orchestrator) showDir(show sonarr.Show) string {
	base := filepath.Base(strings.TrimRight(show.Path, "/"))
	if base == "." || base == "/" || base == "" {
		base = library.SanitizeTitle(show.Title)
	}
	return filepath.Join(o.opts.LibraryRoot, base)
}
