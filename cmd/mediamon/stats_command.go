package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"mediamon/internal/dedup"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show processed-file statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := dedup.Open(cfg)
			if err != nil {
				return fmt.Errorf("open dedup store: %w", err)
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("read stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching: %s\n", cfg.Paths.WatchDir)
			fmt.Fprintf(out, "Processed files: %d\n", stats.Total)
			if stats.Total == 0 {
				return nil
			}

			statuses := make([]string, 0, len(stats.ByStatus))
			for status := range stats.ByStatus {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				rows = append(rows, []string{status, strconv.Itoa(stats.ByStatus[status])})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Status", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}
