package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"mediamon/internal/classify"
	"mediamon/internal/config"
	"mediamon/internal/dedup"
	"mediamon/internal/logging"
	"mediamon/internal/media/ffprobe"
	"mediamon/internal/notify"
)

// ProbeFunc extracts media metadata for a path. It exists so tests can swap
// out the external ffprobe invocation.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Coordinator owns the bounded worker pool that processes file arrivals.
type Coordinator struct {
	store    dedup.Store
	notifier notify.Service
	probe    ProbeFunc
	logger   *slog.Logger

	workers  int
	interval time.Duration
	checks   int

	jobs chan string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures optional Coordinator behavior.
type Option func(*Coordinator)

// WithProbe replaces the ffprobe invocation (used in tests).
func WithProbe(probe ProbeFunc) Option {
	return func(c *Coordinator) {
		c.probe = probe
	}
}

// WithStabilization overrides the sampling interval and required check count.
func WithStabilization(interval time.Duration, checks int) Option {
	return func(c *Coordinator) {
		c.interval = interval
		c.checks = checks
	}
}

// New constructs a coordinator from configuration.
func New(cfg *config.Config, store dedup.Store, notifier notify.Service, logger *slog.Logger, opts ...Option) *Coordinator {
	if notifier == nil {
		notifier = notify.NewNop()
	}
	c := &Coordinator{
		store:    store,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		workers:  cfg.Monitor.Workers,
		interval: time.Duration(cfg.Monitor.StabilizeInterval) * time.Second,
		checks:   cfg.Monitor.StabilizeChecks,
		jobs:     make(chan string, cfg.Monitor.QueueDepth),
	}
	binary := cfg.FFprobeBinary()
	c.probe = func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, binary, path)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the worker pool.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return errors.New("pipeline already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true

	c.wg.Add(c.workers)
	for i := 0; i < c.workers; i++ {
		go c.runWorker(runCtx)
	}

	c.logger.Info("pipeline started", logging.Int("workers", c.workers))
	return nil
}

// Stop cancels in-flight work and waits for the workers to exit. Files still
// queued or mid-stabilization are abandoned; their claims are released so a
// future arrival event reconsiders them.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	c.running = false
	c.cancel = nil
	c.mu.Unlock()

	cancel()
	c.wg.Wait()
	c.logger.Info("pipeline stopped")
}

// Submit enqueues a path for processing and returns immediately. Paths
// without a recognized media extension are dropped here, before they occupy
// queue space. When the queue is full the event is dropped with a warning.
func (c *Coordinator) Submit(path string) {
	if !HasMediaExtension(path) {
		return
	}

	c.mu.Lock()
	running := c.running
	c.mu.Unlock()
	if !running {
		return
	}

	select {
	case c.jobs <- path:
	default:
		c.logger.Warn("submission queue full, dropping arrival event",
			logging.String(logging.FieldPath, path))
	}
}

func (c *Coordinator) runWorker(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-c.jobs:
			c.process(ctx, path)
		}
	}
}

// process drives one file through the workflow. Every abort path logs and
// returns; nothing escapes to the pool.
func (c *Coordinator) process(ctx context.Context, path string) {
	logger := c.logger.With(
		logging.String(logging.FieldRequestID, uuid.NewString()),
		logging.String(logging.FieldPath, path),
	)

	claimed, err := c.store.Claim(ctx, path)
	if err != nil {
		// A store failure must not be mistaken for "not yet processed";
		// abort and leave the file to a future arrival event.
		logger.Error("dedup check failed", logging.Error(err))
		return
	}
	if !claimed {
		logger.Debug("skipping: already processed or in flight")
		return
	}

	committed := false
	defer func() {
		if !committed {
			c.store.Release(path)
		}
	}()

	logger.Info("waiting for file to stabilize")
	result, err := AwaitStable(ctx, path, c.interval, c.checks)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("stabilization failed", logging.Error(err))
		}
		return
	}
	if result == Vanished {
		logger.Info("file vanished during stabilization")
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("stat after stabilization failed", logging.Error(err))
		return
	}
	size := info.Size()

	probeResult, err := c.probe(ctx, path)
	if err != nil {
		logger.Warn("probe failed, leaving file eligible for reprocessing", logging.Error(err))
		return
	}

	status := classify.Classify(probeResult, size)

	c.notifier.FileProcessed(ctx, notify.Event{
		Path:   path,
		Status: status,
		Size:   size,
		Probe:  &probeResult,
	})

	if err := c.store.MarkProcessed(ctx, path, status, size); err != nil {
		logger.Error("failed to record processed file", logging.Error(err))
		return
	}
	committed = true

	logger.Info("file processed",
		logging.String(logging.FieldStatus, status),
		logging.Int64("size", size),
	)
}
