package preflight

import (
	"context"

	"mediamon/internal/config"
	"mediamon/internal/settings"
)

// Result reports the outcome of a single preflight check. Fatal marks checks
// whose failure must keep the daemon from starting; notification checks are
// advisory because delivery is best-effort and channels may be configured
// later through the API.
type Result struct {
	Name   string
	Passed bool
	Fatal  bool
	Detail string
}

// RunAll executes all applicable preflight checks. Directory checks come from
// the static config; notification checks read the settings snapshot so a
// topic or webhook configured at runtime is honored.
func RunAll(ctx context.Context, cfg *config.Config, snap settings.Snapshot) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Watch directory", cfg.Paths.WatchDir))
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	if snap.EnableNtfy {
		results = append(results, CheckNtfy(ctx, snap.NtfyServer, snap.NtfyTopic))
	}
	if snap.EnableDiscord {
		results = append(results, CheckDiscordConfigured(snap.DiscordWebhook))
	}

	return results
}

// Failed returns the subset of results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// Blocking returns the failed results that must prevent startup.
func Blocking(results []Result) []Result {
	var blocking []Result
	for _, result := range results {
		if !result.Passed && result.Fatal {
			blocking = append(blocking, result)
		}
	}
	return blocking
}
