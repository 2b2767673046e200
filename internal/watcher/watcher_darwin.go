//go:build darwin

package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsevents"
	"github.com/lumipallolabs/dupedive/internal/logging"
)

// Watcher watches for filesystem changes using macOS FSEvents
type Watcher struct {
	stream  *fsevents.EventStream
	eventCh chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// New creates an FSEvents watcher
func New() (*Watcher, error) {
	return &Watcher{
		eventCh: make(chan Event, 100),
		done:    make(chan struct{}),
	}, nil
}

// Events delivers deletions, creations and modifications of files below the
// watched root. Events are dropped while the channel is full.
func (w *Watcher) Events() <-chan Event {
	return w.eventCh
}

// AddRecursive sets the root of the stream. FSEvents always covers the whole
// subtree, so only the last root added is watched.
func (w *Watcher) AddRecursive(root string) error {
	dev, err := fsevents.DeviceForPath(root)
	if err != nil {
		return err
	}

	w.stream = &fsevents.EventStream{
		Paths:   []string{root},
		Latency: 500 * time.Millisecond,
		Device:  dev,
		Flags:   fsevents.FileEvents | fsevents.WatchRoot,
	}
	return nil
}

func (w *Watcher) Start() {
	if w.stream == nil {
		return
	}
	w.stream.Start()
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case events, ok := <-w.stream.Events:
			if !ok {
				return
			}
			for _, event := range events {
				w.handleEvent(event)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsevents.Event) {
	var typ EventType
	switch {
	// Move to Trash is a rename
	case event.Flags&(fsevents.ItemRemoved|fsevents.ItemRenamed) != 0:
		typ = EventDeleted
	case event.Flags&fsevents.ItemCreated != 0:
		typ = EventCreated
	case event.Flags&fsevents.ItemModified != 0:
		typ = EventModified
	default:
		return
	}

	// FSEvents reports paths relative to the device root
	path := event.Path
	if len(path) > 0 && path[0] != '/' {
		path = "/" + path
	}
	if event.Flags&fsevents.ItemIsFile == 0 {
		return
	}
	logging.Debug.WithField("path", path).Debugf("fsevent %s", typ)

	select {
	case w.eventCh <- Event{Type: typ, Path: path}:
	default:
	}
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	if w.stream != nil {
		w.stream.Stop()
	}
	w.wg.Wait()
	close(w.eventCh)
	return nil
}
