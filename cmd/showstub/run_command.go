package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"showstub/internal/library"
	"showstub/internal/logging"
	"showstub/internal/overlay"
	"showstub/internal/plex"
	"showstub/internal/preflight"
	"showstub/internal/reconcile"
	"showstub/internal/runlog"
	"showstub/internal/sonarr"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reconciliation pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, closer, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			defer closer.Close()

			lock := flock.New(filepath.Join(cfg.Paths.StateDir, "showstub.lock"))
			acquired, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !acquired {
				return errors.New("another showstub run is already in progress")
			}
			defer func() { _ = lock.Unlock() }()

			out := cmd.OutOrStdout()
			if !skipPreflight {
				results := preflight.RunAll(cmd.Context(), cfg)
				fmt.Fprintln(out, renderPreflight(results))
				if !preflight.AllPassed(results) {
					return errors.New("preflight checks failed (use --skip-preflight to run anyway)")
				}
			}

			overrides, err := overlay.LoadStyleFile(cfg.Overlay.StyleFile)
			if err != nil {
				return err
			}
			style := overlay.MergeStyles(overlay.DefaultStyle(), overrides)
			overlay.ValidateFont(style, logger)

			instances := make([]reconcile.Instance, 0, len(cfg.Sonarr))
			for _, instanceCfg := range cfg.Sonarr {
				instances = append(instances, reconcile.Instance{
					Source:  sonarr.NewClient(instanceCfg, logger),
					Enforce: instanceCfg.EnforceSettings,
				})
			}

			var syncer reconcile.Syncer
			if cfg.Plex.Enabled && !dryRun {
				client := plex.NewClient(cfg.Plex, logger)
				syncer = plex.NewSynchronizer(client, cfg.Plex.Library, cfg.Plex.Label, cfg.Stub.Suffix, logger)
			}

			stubs := library.NewManager(cfg.Stub.Suffix, cfg.Stub.TemplateFile, cfg.Stub.SeasonFolder, logger)
			emitter := overlay.NewEmitter(cfg.Overlay.Key, cfg.Overlay.Text, logger)

			// Run history is bookkeeping; a corrupt database must never
			// block reconciliation.
			var runID string
			store, err := runlog.Open(cfg.Paths.StateDir)
			if err != nil {
				logger.Warn("run history unavailable", "error", err)
				store = nil
			} else {
				defer store.Close()
				if runID, err = store.StartRun(cmd.Context(), dryRun); err != nil {
					logger.Warn("record run start failed", "error", err)
					runID = ""
				}
			}

			var observer reconcile.Observer
			if store != nil && runID != "" {
				observer = func(instance string, show sonarr.Show, decision reconcile.Decision, detail string) {
					recordErr := store.RecordDecision(cmd.Context(), runID, runlog.Decision{
						Instance: instance,
						Title:    show.Title,
						TVDBID:   show.TVDBID,
						Decision: decision.String(),
						Detail:   detail,
					})
					if recordErr != nil {
						logger.Warn("record decision failed", "error", recordErr)
					}
				}
			}

			opts := reconcile.Options{
				LibraryRoot:    cfg.Paths.LibraryRoot,
				StubSuffix:     cfg.Stub.Suffix,
				OutputFile:     cfg.Paths.OutputFile,
				Style:          style,
				WritePlexMatch: cfg.Stub.WritePlexMatch,
				DryRun:         dryRun,
			}
			orchestrator := reconcile.NewOrchestrator(instances, stubs, syncer, emitter, observer, opts, logger)

			summary, runErr := orchestrator.Run(cmd.Context())
			if store != nil && runID != "" {
				if finishErr := store.FinishRun(cmd.Context(), runID, runlog.Summary{
					ShowsSeen:    summary.ShowsSeen,
					StubsCreated: summary.StubsCreated,
					StubsRemoved: summary.StubsRemoved,
					OverlayShows: summary.OverlayShows,
				}, runErr); finishErr != nil {
					logger.Warn("record run finish failed", "error", finishErr)
				}
			}

			fmt.Fprintln(out, renderSummary(summary, dryRun))
			return runErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify shows without touching files, Plex, or the overlay")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip connectivity and filesystem checks")
	return cmd
}

func renderPreflight(results []preflight.Result) string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		status := "FAIL"
		if result.Passed {
			status = "OK"
		}
		rows = append(rows, []string{result.Name, status, result.Detail})
	}
	return renderTable(
		[]string{"Check", "Status", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	)
}

func renderSummary(summary reconcile.Summary, dryRun bool) string {
	rows := [][]string{
		{"Shows seen", strconv.Itoa(summary.ShowsSeen)},
		{"Stubs created", strconv.Itoa(summary.StubsCreated)},
		{"Stubs removed", strconv.Itoa(summary.StubsRemoved)},
		{"Overlay shows", strconv.Itoa(summary.OverlayShows)},
		{"Dry run", yesNo(dryRun)},
	}
	if len(summary.FailedInstances) > 0 {
		rows = append(rows, []string{"Failed instances", fmt.Sprintf("%v", summary.FailedInstances)})
	}
	return renderTable(
		[]string{"Metric", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	)
}
