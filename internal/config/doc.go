// Package config loads, normalizes, and validates mediamon configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// NTFY_TOPIC and DISCORD_WEBHOOK. The Config type centralizes every knob the
// daemon and CLI need, so the watch root, worker pool size, and notification
// credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
