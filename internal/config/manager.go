package config

import "sync"

// Manager manages runtime configuration with hot reload support: callers
// read the current config through GetConfig and register a callback to
// react to changes picked up by a Watcher.
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	onUpdate func(old, new *Config)
}

// NewManager creates a manager seeded with cfg, loaded from path.
func NewManager(cfg *Config, path string) *Manager {
	return &Manager{config: cfg, path: path}
}

// SetOnUpdate registers the callback invoked after a successful reload.
func (m *Manager) SetOnUpdate(fn func(old, new *Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUpdate = fn
}

// GetConfig returns the current config.
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Path returns the config file path this manager was loaded from.
func (m *Manager) Path() string {
	return m.path
}

// Reload re-reads and validates the config file, swapping it in only if
// successful. Returns the new config, or an error if the file failed to
// load, leaving the previous config in place.
func (m *Manager) Reload() (*Config, error) {
	next, err := Load(m.path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	old := m.config
	m.config = next
	cb := m.onUpdate
	m.mu.Unlock()

	if cb != nil {
		cb(old, next)
	}
	return next, nil
}
