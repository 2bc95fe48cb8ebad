package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mediamon/internal/logging"
	"mediamon/internal/notify"
	"mediamon/internal/settings"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			mgr, err := settings.Load(cfg)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			logger := logging.NewNop()
			service := notify.NewService(mgr, time.Duration(cfg.Notifications.RequestTimeout)*time.Second, logger)

			out := cmd.OutOrStdout()
			switch channel {
			case "ntfy":
				if err := service.TestNtfy(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "ntfy test notification sent")
			case "discord":
				if err := service.TestDiscord(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "Discord test notification sent")
			case "all":
				var firstErr error
				if err := service.TestNtfy(cmd.Context()); err != nil {
					firstErr = err
					fmt.Fprintf(out, "ntfy: %v\n", err)
				} else {
					fmt.Fprintln(out, "ntfy test notification sent")
				}
				if err := service.TestDiscord(cmd.Context()); err != nil {
					if firstErr == nil {
						firstErr = err
					}
					fmt.Fprintf(out, "discord: %v\n", err)
				} else {
					fmt.Fprintln(out, "Discord test notification sent")
				}
				return firstErr
			default:
				return fmt.Errorf("unknown channel %q (expected ntfy, discord, or all)", channel)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "all", "Channel to test: ntfy, discord, or all")
	return cmd
}
