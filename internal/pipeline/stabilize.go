package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// StabilizeResult reports how a stabilization wait ended.
type StabilizeResult int

const (
	// Stable means the file size stayed unchanged for the required number of
	// consecutive samples.
	Stable StabilizeResult = iota
	// Vanished means the path stopped existing during sampling.
	Vanished
)

// AwaitStable samples the size of path every interval until it has stayed the
// same for requiredChecks consecutive samples, the file disappears, or ctx is
// cancelled. There is no upper bound on the wait: a file that keeps growing
// is polled indefinitely.
func AwaitStable(ctx context.Context, path string, interval time.Duration, requiredChecks int) (StabilizeResult, error) {
	if requiredChecks <= 0 {
		requiredChecks = 1
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastSize := int64(-1)
	stable := 0

	for {
		select {
		case <-ctx.Done():
			return Vanished, ctx.Err()
		case <-ticker.C:
		}

		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Vanished, nil
			}
			return Vanished, fmt.Errorf("stat %s: %w", path, err)
		}

		if info.Size() == lastSize {
			stable++
		} else {
			// New reference size starts a fresh run of one.
			stable = 1
			lastSize = info.Size()
		}

		if stable >= requiredChecks {
			return Stable, nil
		}
	}
}
