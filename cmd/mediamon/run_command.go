package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mediamon/internal/daemon"
	"mediamon/internal/dedup"
	"mediamon/internal/logging"
	"mediamon/internal/notify"
	"mediamon/internal/pipeline"
	"mediamon/internal/settings"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the monitor daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := dedup.Open(cfg)
			if err != nil {
				logger.Error("open dedup store", logging.Error(err))
				return err
			}
			defer store.Close()

			mgr, err := settings.Load(cfg)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			notifier := notify.NewService(mgr, time.Duration(cfg.Notifications.RequestTimeout)*time.Second, logger)
			pipe := pipeline.New(cfg, store, notifier, logger)

			d, err := daemon.New(cfg, store, mgr, notifier, pipe, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			defer d.Close()

			if err := d.Start(signalCtx); err != nil {
				return err
			}

			<-signalCtx.Done()
			logger.Info("mediamon shutting down")
			d.Stop()
			return nil
		},
	}
}
