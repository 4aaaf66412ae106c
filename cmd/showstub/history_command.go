package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"showstub/internal/runlog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List past runs, or the per-show decisions of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := runlog.Open(cfg.Paths.StateDir)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				decisions, err := store.Decisions(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("query decisions: %w", err)
				}
				if len(decisions) == 0 {
					fmt.Fprintln(out, "No decisions recorded for that run")
					return nil
				}
				rows := make([][]string, 0, len(decisions))
				for _, d := range decisions {
					rows = append(rows, []string{
						d.Instance, d.Title, strconv.FormatInt(d.TVDBID, 10), d.Decision, d.Detail,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Instance", "Show", "TVDB", "Decision", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("query run history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				status := "ok"
				switch {
				case run.Error != "":
					status = "error"
				case !run.Finished():
					status = "interrupted"
				case run.DryRun:
					status = "dry-run"
				}
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format(time.DateTime),
					status,
					strconv.Itoa(run.ShowsSeen),
					strconv.Itoa(run.StubsCreated),
					strconv.Itoa(run.StubsRemoved),
					strconv.Itoa(run.OverlayShows),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Status", "Shows", "Created", "Removed", "Overlay"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}
