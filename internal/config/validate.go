package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMonitor(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WatchDir) == "" {
		return errors.New("paths.watch_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateMonitor() error {
	if c.Monitor.StabilizeInterval <= 0 {
		return errors.New("monitor.stabilize_interval must be positive")
	}
	if c.Monitor.StabilizeChecks <= 0 {
		return errors.New("monitor.stabilize_checks must be positive")
	}
	if c.Monitor.Workers <= 0 {
		return errors.New("monitor.workers must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.EnableNtfy && c.Notifications.NtfyTopic != "" && c.Notifications.NtfyServer == "" {
		return errors.New("notifications.ntfy_server must be set when a topic is configured")
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
