package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediamon/internal/preflight"
	"mediamon/internal/settings"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check directories, binaries, and notification endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			mgr, err := settings.Load(cfg)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			out := cmd.OutOrStdout()

			rows := make([][]string, 0, 8)
			for _, result := range preflight.RunAll(cmd.Context(), cfg, mgr.Snapshot()) {
				rows = append(rows, []string{result.Name, yesNo(result.Passed), result.Detail})
			}
			for _, status := range preflight.CheckSystemDeps(cfg) {
				detail := status.Detail
				if status.Available {
					detail = status.Command
				}
				rows = append(rows, []string{status.Name, yesNo(status.Available), detail})
			}

			fmt.Fprintln(out, renderTable(out,
				[]string{"Check", "OK", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
