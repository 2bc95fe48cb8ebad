package settings_test

import (
	"path/filepath"
	"testing"

	"mediamon/internal/config"
	"mediamon/internal/settings"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Notifications.NtfyTopic = "media"
	return &cfg
}

func TestLoadSeedsFromConfig(t *testing.T) {
	cfg := testConfig(t)
	mgr, err := settings.Load(cfg)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	snap := mgr.Snapshot()
	if snap.NtfyTopic != "media" {
		t.Fatalf("expected seeded topic, got %q", snap.NtfyTopic)
	}
	if !snap.EnableNtfy || !snap.EnableDiscord {
		t.Fatalf("expected channels enabled by default: %+v", snap)
	}
}

func TestUpdatePersistsAcrossReload(t *testing.T) {
	cfg := testConfig(t)
	mgr, err := settings.Load(cfg)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	next := mgr.Snapshot()
	next.DiscordWebhook = "https://discord.example.com/api/webhooks/1/x"
	next.EnableNtfy = false
	if err := mgr.Update(next); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	reloaded, err := settings.Load(cfg)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	snap := reloaded.Snapshot()
	if snap.DiscordWebhook != next.DiscordWebhook {
		t.Fatalf("expected persisted webhook, got %q", snap.DiscordWebhook)
	}
	if snap.EnableNtfy {
		t.Fatal("expected ntfy disabled after update")
	}
}

func TestSnapshotIsolatedFromLaterUpdates(t *testing.T) {
	cfg := testConfig(t)
	mgr, err := settings.Load(cfg)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	before := mgr.Snapshot()
	next := before
	next.NtfyTopic = "changed"
	if err := mgr.Update(next); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if before.NtfyTopic != "media" {
		t.Fatalf("snapshot should be unaffected by update, got %q", before.NtfyTopic)
	}
}
