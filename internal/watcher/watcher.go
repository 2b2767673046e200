package watcher

import "path/filepath"

// EventType represents the type of filesystem event
type EventType int

const (
	EventDeleted EventType = iota
	EventCreated
	EventModified
)

func (t EventType) String() string {
	switch t {
	case EventDeleted:
		return "deleted"
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Event represents a filesystem change event
type Event struct {
	Type EventType
	Path string
}

// Watch creates a watcher for root and starts it
func Watch(root string) (*Watcher, error) {
	w, err := New()
	if err != nil {
		return nil, err
	}
	if err := w.AddRecursive(root); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.Start()
	return w, nil
}

// PathSet holds the paths a scan result refers to
type PathSet map[string]struct{}

// NewPathSet builds a set of cleaned paths
func NewPathSet(paths []string) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s[filepath.Clean(p)] = struct{}{}
	}
	return s
}

// Affects reports whether ev touches a path in the set
func (s PathSet) Affects(ev Event) bool {
	_, ok := s[filepath.Clean(ev.Path)]
	return ok
}
