package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"showstub/internal/preflight"
	"showstub/internal/runlog"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connectivity checks and the most recent run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n\n", ctx.configPath)

			results := preflight.RunAll(cmd.Context(), cfg)
			fmt.Fprintln(out, renderPreflight(results))

			store, err := runlog.Open(cfg.Paths.StateDir)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), 1)
			if err != nil {
				return fmt.Errorf("query run history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			run := runs[0]
			rows := [][]string{
				{"Run", run.ID},
				{"Started", run.StartedAt.Local().Format(time.RFC1123)},
				{"Finished", formatFinish(run)},
				{"Dry run", yesNo(run.DryRun)},
				{"Shows seen", strconv.Itoa(run.ShowsSeen)},
				{"Stubs created", strconv.Itoa(run.StubsCreated)},
				{"Stubs removed", strconv.Itoa(run.StubsRemoved)},
				{"Overlay shows", strconv.Itoa(run.OverlayShows)},
			}
			if run.Error != "" {
				rows = append(rows, []string{"Error", run.Error})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Last run", ""},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func formatFinish(run runlog.Run) string {
	if !run.Finished() {
		return "interrupted"
	}
	return run.FinishedAt.Local().Format(time.RFC1123)
}
