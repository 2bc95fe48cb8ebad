package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"mediamon/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchDir = filepath.Join(base, "watch")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Notifications.EnableNtfy = false
	cfg.Notifications.EnableDiscord = false

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	// The daemon never creates the watch root itself.
	if err := os.MkdirAll(cfg.Paths.WatchDir, 0o755); err != nil {
		t.Fatalf("create watch dir: %v", err)
	}
	return &cfg
}

// WithWorkers overrides the worker pool size on the test config.
func WithWorkers(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Monitor.Workers = n
	}
}

// WithNtfy points the simple notification channel at a test server.
func WithNtfy(server, topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.EnableNtfy = true
		cfg.Notifications.NtfyServer = server
		cfg.Notifications.NtfyTopic = topic
	}
}

// WithDiscord points the rich notification channel at a test webhook.
func WithDiscord(webhook string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.EnableDiscord = true
		cfg.Notifications.DiscordWebhook = webhook
	}
}
