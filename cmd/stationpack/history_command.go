package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stationpack/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded build sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg.LedgerPath())
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			runs, err := store.Runs(cmd.Context(), limitFlag)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			streams, err := store.FingerprintCount(cmd.Context())
			if err != nil {
				return fmt.Errorf("count streams: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No sessions recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.Query,
					strconv.FormatInt(run.StationsTotal, 10),
					strconv.FormatInt(run.StationsSuccess, 10),
					strconv.FormatInt(run.StationsFailed, 10),
					strconv.FormatInt(run.StationsSkipped, 10),
					strconv.FormatInt(run.StationsTimeout, 10),
					run.EndedAt.Sub(run.StartedAt).Round(time.Second).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Query", "Total", "OK", "Failed", "Skipped", "Timeout", "Runtime"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(out, "Known streams: %d\n", streams)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum sessions to show")
	return cmd
}
