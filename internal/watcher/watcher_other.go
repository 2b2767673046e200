//go:build !darwin && !windows

package watcher

import "sync"

// Watcher is a no-op on platforms without a native backend; scan results are
// only refreshed by an explicit rescan there.
type Watcher struct {
	eventCh chan Event
	once    sync.Once
}

// New creates a new filesystem watcher (stub)
func New() (*Watcher, error) {
	return &Watcher{
		eventCh: make(chan Event),
	}, nil
}

// Events returns the channel for receiving filesystem events
func (w *Watcher) Events() <-chan Event {
	return w.eventCh
}

// AddRecursive adds a path to watch recursively (stub - does nothing)
func (w *Watcher) AddRecursive(root string) error {
	return nil
}

// Start begins watching for events (stub - does nothing)
func (w *Watcher) Start() {
}

// Stop closes the event channel. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.once.Do(func() { close(w.eventCh) })
	return nil
}
