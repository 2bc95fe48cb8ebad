package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMonitor()
	c.normalizeNotifications()
	c.normalizePosters()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if watch, ok := os.LookupEnv("WATCH_DIR"); ok && strings.TrimSpace(watch) != "" {
		c.Paths.WatchDir = watch
	}
	if c.Paths.WatchDir, err = expandPath(c.Paths.WatchDir); err != nil {
		return fmt.Errorf("paths.watch_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	return nil
}

func (c *Config) normalizeMonitor() {
	if c.Monitor.StabilizeInterval <= 0 {
		c.Monitor.StabilizeInterval = defaultStabilizeInterval
	}
	if c.Monitor.StabilizeChecks <= 0 {
		c.Monitor.StabilizeChecks = defaultStabilizeChecks
	}
	if c.Monitor.Workers <= 0 {
		c.Monitor.Workers = defaultWorkers
	}
	if c.Monitor.QueueDepth <= 0 {
		c.Monitor.QueueDepth = defaultQueueDepth
	}
}

func (c *Config) normalizeNotifications() {
	if server, ok := os.LookupEnv("NTFY_SERVER"); ok && strings.TrimSpace(server) != "" {
		c.Notifications.NtfyServer = server
	}
	if topic, ok := os.LookupEnv("NTFY_TOPIC"); ok && strings.TrimSpace(topic) != "" {
		c.Notifications.NtfyTopic = topic
	}
	if webhook, ok := os.LookupEnv("DISCORD_WEBHOOK"); ok && strings.TrimSpace(webhook) != "" {
		c.Notifications.DiscordWebhook = webhook
	}
	c.Notifications.NtfyServer = strings.TrimRight(strings.TrimSpace(c.Notifications.NtfyServer), "/")
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	c.Notifications.DiscordWebhook = strings.TrimSpace(c.Notifications.DiscordWebhook)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizePosters() {
	if key, ok := os.LookupEnv("TVDB_API_KEY"); ok && strings.TrimSpace(key) != "" {
		c.Posters.TVDBAPIKey = key
	}
	c.Posters.TVDBAPIKey = strings.TrimSpace(c.Posters.TVDBAPIKey)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
