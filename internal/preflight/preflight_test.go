package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mediamon/internal/settings"
	"mediamon/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !result.Fatal {
		t.Fatal("directory failures must block startup")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckNtfy_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := CheckNtfy(context.Background(), srv.URL, "media")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckNtfy_UnsetPassesAsNotConfigured(t *testing.T) {
	for name, result := range map[string]Result{
		"missing topic":  CheckNtfy(context.Background(), "https://ntfy.sh", ""),
		"missing server": CheckNtfy(context.Background(), "", "media"),
	} {
		if !result.Passed {
			t.Fatalf("%s: unset channel must not fail preflight, got: %s", name, result.Detail)
		}
		if result.Detail != "not configured" {
			t.Fatalf("%s: expected not-configured detail, got %q", name, result.Detail)
		}
	}
}

func TestCheckNtfy_ServerErrorIsAdvisory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := CheckNtfy(context.Background(), srv.URL, "media")
	if result.Passed {
		t.Fatal("expected failure for server error")
	}
	if result.Fatal {
		t.Fatal("reachability failures must not block startup")
	}
}

func TestCheckDiscordConfigured(t *testing.T) {
	if result := CheckDiscordConfigured("https://discord.com/api/webhooks/1/abc"); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckDiscordConfigured(""); !result.Passed {
		t.Fatal("unset webhook must pass as not configured")
	}
	if result := CheckDiscordConfigured("http://discord.com/api/webhooks/1/abc"); result.Passed {
		t.Fatal("expected failure for non-https webhook")
	} else if result.Fatal {
		t.Fatal("webhook shape failures must not block startup")
	}
}

func TestRunAllSkipsDisabledChannels(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg, settings.Snapshot{})
	// Directory checks only: both channels are disabled in the snapshot.
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %#v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all directory checks to pass, failed: %#v", failed)
	}
}

func TestRunAllToleratesEnabledUnconfiguredChannels(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	snap := settings.Snapshot{
		NtfyServer:    "https://ntfy.sh",
		EnableNtfy:    true,
		EnableDiscord: true,
	}
	results := RunAll(context.Background(), cfg, snap)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d: %#v", len(results), results)
	}
	if blocked := Blocking(results); len(blocked) != 0 {
		t.Fatalf("fresh install state must not block startup, got: %#v", blocked)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unconfigured channels must pass as not configured, failed: %#v", failed)
	}
}

func TestRunAllReportsMissingWatchDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.WatchDir = filepath.Join(t.TempDir(), "missing")
	results := RunAll(context.Background(), cfg, settings.Snapshot{})
	blocked := Blocking(results)
	if len(blocked) != 1 || blocked[0].Name != "Watch directory" {
		t.Fatalf("expected watch directory failure, got: %#v", blocked)
	}
}
