// Package stats persists counters that outlive a session: bytes and files
// freed, and the scans run.
package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lumipallolabs/dupedive/internal/logging"
)

// Stats holds persistent statistics
type Stats struct {
	FreedLifetime int64  `json:"freed_lifetime"`
	FilesDeleted  int64  `json:"files_deleted"`
	ScanCount     int64  `json:"scan_count"`
	LastRoot      string `json:"last_root,omitempty"` // Root of the most recent scan
}

// Manager handles loading and saving stats
type Manager struct {
	path         string
	stats        Stats
	mu           sync.RWMutex
	dirty        bool
	saveTimer    *time.Timer
	saveDuration time.Duration
}

// NewManager creates a stats manager backed by the JSON file at path
func NewManager(path string) *Manager {
	return &Manager{
		path:         path,
		saveDuration: 2 * time.Second, // Debounce saves
	}
}

// Dir returns the per-user state directory
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dupedive"
	}
	return filepath.Join(home, ".dupedive")
}

// Load loads stats from disk
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.stats = Stats{}
			return nil
		}
		return err
	}

	return json.Unmarshal(data, &m.stats)
}

// Save saves stats to disk immediately
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked()
}

// saveLocked saves stats without acquiring the lock (caller must hold lock)
func (m *Manager) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.stats, "", "  ")
	if err != nil {
		return err
	}

	m.dirty = false
	return os.WriteFile(m.path, data, 0644)
}

// scheduleSaveLocked marks stats dirty and restarts the debounce timer
func (m *Manager) scheduleSaveLocked() {
	m.dirty = true

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(m.saveDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.dirty {
			if err := m.saveLocked(); err != nil {
				logging.Debug.WithError(err).Warn("background stats save failed")
			}
		}
	})
}

// Snapshot returns a copy of the current stats
func (m *Manager) Snapshot() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// FreedLifetime returns the lifetime freed bytes
func (m *Manager) FreedLifetime() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.FreedLifetime
}

// LastRoot returns the root of the most recent scan
func (m *Manager) LastRoot() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.LastRoot
}

// RecordScan notes a completed scan of root
func (m *Manager) RecordScan(root string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.ScanCount++
	m.stats.LastRoot = root
	m.scheduleSaveLocked()
}

// AddFreed adds to the lifetime counters and schedules a debounced save
func (m *Manager) AddFreed(files int, bytes int64) {
	if files <= 0 && bytes <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.FreedLifetime += bytes
	m.stats.FilesDeleted += int64(files)
	m.scheduleSaveLocked()
}

// Close ensures any pending saves are written
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}

	if m.dirty {
		return m.saveLocked()
	}
	return nil
}
