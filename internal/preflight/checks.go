package preflight

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"mediamon/internal/config"
	"mediamon/internal/deps"
)

// CheckDirectoryAccess verifies the path exists, is a directory, and grants
// read, write, and traverse permissions to the current user.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckNtfy verifies the ntfy server is reachable. An unset server or topic
// passes as "not configured": the dispatcher skips the channel in that state,
// and the topic may still be set through the API. It uses a 5-second timeout
// and a single attempt; delivery failures at runtime are tolerated, so this
// only guards against obvious misconfiguration.
func CheckNtfy(ctx context.Context, server, topic string) Result {
	const name = "ntfy"

	base := strings.TrimRight(strings.TrimSpace(server), "/")
	if base == "" || strings.TrimSpace(topic) == "" {
		return Result{Name: name, Passed: true, Detail: "not configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, base, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("reachability check failed (%v)", err)}
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("server unreachable (%v)", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return Result{Name: name, Detail: fmt.Sprintf("server error (%d)", resp.StatusCode)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckDiscordConfigured validates the webhook URL shape without calling
// Discord; an actual delivery is available via "mediamon test-notify". An
// unset webhook passes as "not configured" since the dispatcher skips the
// channel in that state.
func CheckDiscordConfigured(webhook string) Result {
	const name = "Discord"

	trimmed := strings.TrimSpace(webhook)
	if trimmed == "" {
		return Result{Name: name, Passed: true, Detail: "not configured"}
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return Result{Name: name, Detail: "webhook url must be an https url"}
	}
	return Result{Name: name, Passed: true, Detail: "Configured"}
}

// CheckSystemDeps evaluates the external binaries the monitor needs. Both
// the daemon and the CLI status command use this to avoid duplicating the
// requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media inspection",
		},
	}
	return deps.CheckBinaries(requirements)
}
