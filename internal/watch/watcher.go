// Package watch observes the watch root with fsnotify and forwards media
// file arrivals to the pipeline. Directories are watched recursively:
// existing subdirectories at startup, new ones as they appear.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"mediamon/internal/logging"
)

// Sink accepts file arrival events. The pipeline coordinator satisfies it.
type Sink interface {
	Submit(path string)
}

// Watcher delivers Create and Rename events under a root directory to a Sink.
type Watcher struct {
	root   string
	sink   Sink
	logger *slog.Logger

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a watcher for root. The root must exist; subdirectories that do
// not exist yet are picked up when their parent reports a Create event.
func New(root string, sink Sink, logger *slog.Logger) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create filesystem watcher: %w", err)
	}

	return &Watcher{
		root:    root,
		sink:    sink,
		logger:  logging.NewComponentLogger(logger, "watch"),
		watcher: fsw,
	}, nil
}

// Start registers the directory tree and begins delivering events.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}

	if err := w.addTree(w.root); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.run(runCtx)

	w.logger.Info("watching for file arrivals", logging.String(logging.FieldPath, w.root))
	return nil
}

// Stop closes the underlying watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	_ = w.watcher.Close()
	w.wg.Wait()
	w.logger.Info("watcher stopped")
}

// addTree watches root and every directory below it. Walk errors on
// individual entries are logged and skipped so one unreadable directory
// cannot prevent monitoring the rest of the tree.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("skipping unreadable entry",
				logging.String(logging.FieldPath, path), logging.Error(err))
			return fs.SkipDir
		}
		if !entry.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory",
				logging.String(logging.FieldPath, path), logging.Error(err))
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("filesystem watcher error", logging.Error(err))
		}
	}
}

// handleEvent forwards arrivals to the sink. Rename events fire for both
// halves of a move; the stabilizer reports the departed half as vanished, so
// forwarding both is safe and covers files moved into the tree.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// The departed half of a rename, or something already deleted.
		if event.Op&fsnotify.Rename != 0 {
			return
		}
		w.logger.Debug("arrival vanished before stat",
			logging.String(logging.FieldPath, event.Name))
		return
	}

	if info.IsDir() {
		// New directory under the root: watch it and enqueue anything
		// already inside, since its contents may have arrived before the
		// watch was in place.
		if err := w.addTree(event.Name); err != nil {
			w.logger.Warn("failed to watch new directory",
				logging.String(logging.FieldPath, event.Name), logging.Error(err))
			return
		}
		w.submitExisting(event.Name)
		return
	}

	w.sink.Submit(event.Name)
}

// submitExisting enqueues regular files already present under dir.
func (w *Watcher) submitExisting(dir string) {
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		w.sink.Submit(path)
		return nil
	})
}
