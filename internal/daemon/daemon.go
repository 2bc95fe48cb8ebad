package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"mediamon/internal/config"
	"mediamon/internal/dedup"
	"mediamon/internal/logging"
	"mediamon/internal/notify"
	"mediamon/internal/pipeline"
	"mediamon/internal/preflight"
	"mediamon/internal/settings"
	"mediamon/internal/watch"
)

// Daemon owns the monitor's lifecycle and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    dedup.Store
	settings *settings.Manager
	notifier notify.Service
	pipe     *pipeline.Coordinator
	watcher  *watch.Watcher
	api      *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	WatchDir     string
	DatabasePath string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies. The watcher and API
// server are created in Start so New never touches the filesystem or the
// network.
func New(cfg *config.Config, store dedup.Store, mgr *settings.Manager, notifier notify.Service, pipe *pipeline.Coordinator, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || mgr == nil || pipe == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, settings, pipeline, and logger")
	}
	if notifier == nil {
		notifier = notify.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "mediamond.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		settings: mgr,
		notifier: notifier,
		pipe:     pipe,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start runs preflight checks, acquires the daemon lock, and launches the
// pipeline, the watcher, and the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	checks := preflight.RunAll(ctx, d.cfg, d.settings.Snapshot())
	if blocked := preflight.Blocking(checks); len(blocked) > 0 {
		details := make([]string, 0, len(blocked))
		for _, check := range blocked {
			details = append(details, fmt.Sprintf("%s: %s", check.Name, check.Detail))
		}
		return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
	}
	for _, check := range preflight.Failed(checks) {
		d.logger.Warn("preflight check failed",
			logging.String("check", check.Name),
			logging.String("detail", check.Detail),
		)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mediamon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	abort := func() {
		cancel()
		_ = d.lock.Unlock()
	}

	if err := d.pipe.Start(runCtx); err != nil {
		abort()
		return fmt.Errorf("start pipeline: %w", err)
	}

	watcher, err := watch.New(d.cfg.Paths.WatchDir, d.pipe, d.logger)
	if err != nil {
		d.pipe.Stop()
		abort()
		return err
	}
	if err := watcher.Start(runCtx); err != nil {
		d.pipe.Stop()
		abort()
		return fmt.Errorf("start watcher: %w", err)
	}
	d.watcher = watcher

	api, err := newAPIServer(d.cfg, d, d.logger)
	if err != nil {
		watcher.Stop()
		d.pipe.Stop()
		abort()
		return err
	}
	if api != nil {
		if err := api.start(runCtx); err != nil {
			watcher.Stop()
			d.pipe.Stop()
			abort()
			return err
		}
	}
	d.api = api

	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("mediamon daemon started",
		logging.String("lock", d.lockPath),
		logging.String("watch_dir", d.cfg.Paths.WatchDir))
	return nil
}

// Stop halts the watcher, the pipeline, and the API server, then releases
// the daemon lock. In-flight files are abandoned with their claims released
// so a future arrival event reconsiders them.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.watcher != nil {
		d.watcher.Stop()
		d.watcher = nil
	}
	d.pipe.Stop()
	if d.api != nil {
		d.api.stop()
		d.api = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("mediamon daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Stats returns aggregate processed-file statistics.
func (d *Daemon) Stats(ctx context.Context) (dedup.Stats, error) {
	if d.store == nil {
		return dedup.Stats{}, errors.New("dedup store unavailable")
	}
	return d.store.Stats(ctx)
}

// Settings returns the current runtime settings snapshot.
func (d *Daemon) Settings() settings.Snapshot {
	return d.settings.Snapshot()
}

// UpdateSettings persists a new runtime settings snapshot.
func (d *Daemon) UpdateSettings(next settings.Snapshot) error {
	return d.settings.Update(next)
}

// TestNtfy sends a test message over the simple notification channel.
func (d *Daemon) TestNtfy(ctx context.Context) error {
	return d.notifier.TestNtfy(ctx)
}

// TestDiscord sends a test embed over the rich notification channel.
func (d *Daemon) TestDiscord(ctx context.Context) error {
	return d.notifier.TestDiscord(ctx)
}

// APIAddr reports the bound API listener address, or "" when the API is
// disabled or not yet started.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		WatchDir:     d.cfg.Paths.WatchDir,
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
	}
}
