package daemon_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mediamon/internal/config"
	"mediamon/internal/daemon"
	"mediamon/internal/dedup"
	"mediamon/internal/logging"
	"mediamon/internal/media/ffprobe"
	"mediamon/internal/notify"
	"mediamon/internal/pipeline"
	"mediamon/internal/settings"
	"mediamon/internal/testsupport"
)

func stubProbe(context.Context, string) (ffprobe.Result, error) {
	return ffprobe.Result{
		Streams: []ffprobe.Stream{
			{CodecType: "video", CodecName: "h264"},
			{CodecType: "audio", CodecName: "aac", Tags: ffprobe.StreamTags{Language: "eng"}},
		},
		Format: ffprobe.Format{FormatName: "matroska,webm"},
	}, nil
}

func buildDaemon(t *testing.T, cfg *config.Config, store dedup.Store) *daemon.Daemon {
	t.Helper()
	logger := logging.NewNop()
	mgr, err := settings.Load(cfg)
	if err != nil {
		t.Fatalf("settings.Load: %v", err)
	}
	pipe := pipeline.New(cfg, store, notify.NewNop(), logger,
		pipeline.WithProbe(stubProbe),
		pipeline.WithStabilization(time.Millisecond, 2),
	)
	d, err := daemon.New(cfg, store, mgr, notify.NewNop(), pipe, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := buildDaemon(t, cfg, dedup.NewMemoryStore())
	t.Cleanup(func() {
		_ = d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status()
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.WatchDir != cfg.Paths.WatchDir {
		t.Fatalf("unexpected watch dir: %s", status.WatchDir)
	}
	if d.APIAddr() == "" {
		t.Fatal("expected api server to be listening")
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonProcessesArrival(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := dedup.NewMemoryStore()
	d := buildDaemon(t, cfg, store)
	t.Cleanup(func() {
		_ = d.Close()
	})

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	path := filepath.Join(cfg.Paths.WatchDir, "movie.mkv")
	writeMediaFile(t, path, 2048)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		processed, err := store.IsProcessed(context.Background(), path)
		if err != nil {
			t.Fatalf("IsProcessed: %v", err)
		}
		if processed {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	stats, err := d.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 1 {
		t.Fatalf("expected 1 processed file, got %d", stats.Total)
	}
}

func writeMediaFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, bytes.Repeat([]byte{'m'}, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// A fresh install ships with both channels enabled and no endpoints
// configured; the daemon must still come up so they can be set via the API.
func TestDaemonStartsWithUnconfiguredChannels(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.EnableNtfy = true
	cfg.Notifications.EnableDiscord = true
	cfg.Notifications.NtfyServer = "https://ntfy.sh"
	cfg.Notifications.NtfyTopic = ""
	cfg.Notifications.DiscordWebhook = ""

	d := buildDaemon(t, cfg, dedup.NewMemoryStore())
	t.Cleanup(func() {
		_ = d.Close()
	})

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start with unconfigured channels failed: %v", err)
	}
	if !d.Status().Running {
		t.Fatal("expected daemon to report running")
	}
	d.Stop()
}

func TestDaemonStartFailsPreflight(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.WatchDir = filepath.Join(t.TempDir(), "missing")

	d := buildDaemon(t, cfg, dedup.NewMemoryStore())
	if err := d.Start(context.Background()); err == nil {
		d.Stop()
		t.Fatal("expected preflight failure for missing watch dir")
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first := buildDaemon(t, cfg, dedup.NewMemoryStore())
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	t.Cleanup(first.Stop)

	second := buildDaemon(t, cfg, dedup.NewMemoryStore())
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail to acquire the lock")
	}
}
