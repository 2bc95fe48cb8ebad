package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"mediamon/internal/config"
)

// Snapshot is an immutable-per-read copy of the notification settings.
type Snapshot struct {
	NtfyServer     string `json:"ntfy_server"`
	NtfyTopic      string `json:"ntfy_topic"`
	DiscordWebhook string `json:"discord_webhook"`
	TVDBAPIKey     string `json:"tvdb_api_key"`
	EnableNtfy     bool   `json:"enable_ntfy"`
	EnableDiscord  bool   `json:"enable_discord"`
	EnablePosters  bool   `json:"enable_posters"`
}

// Manager holds the single writable copy of the notification settings.
type Manager struct {
	mu      sync.RWMutex
	path    string
	current Snapshot
}

// Load seeds a Manager from config defaults, then overlays any persisted
// settings file at the configured location.
func Load(cfg *config.Config) (*Manager, error) {
	mgr := &Manager{
		path: cfg.SettingsPath(),
		current: Snapshot{
			NtfyServer:     cfg.Notifications.NtfyServer,
			NtfyTopic:      cfg.Notifications.NtfyTopic,
			DiscordWebhook: cfg.Notifications.DiscordWebhook,
			TVDBAPIKey:     cfg.Posters.TVDBAPIKey,
			EnableNtfy:     cfg.Notifications.EnableNtfy,
			EnableDiscord:  cfg.Notifications.EnableDiscord,
			EnablePosters:  cfg.Posters.Enabled,
		},
	}

	data, err := os.ReadFile(mgr.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mgr, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &mgr.current); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return mgr, nil
}

// Snapshot returns a value copy of the current settings.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Update replaces the current settings and persists them.
func (m *Manager) Update(next Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = next
	return m.persistLocked()
}

func (m *Manager) persistLocked() error {
	data, err := json.MarshalIndent(m.current, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
