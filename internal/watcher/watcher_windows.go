//go:build windows

package watcher

import (
	"encoding/binary"
	"path/filepath"
	"sync"
	"unicode/utf16"

	"github.com/lumipallolabs/dupedive/internal/logging"
	"golang.org/x/sys/windows"
)

// Watcher watches for filesystem changes using Windows ReadDirectoryChangesW
type Watcher struct {
	handle  windows.Handle
	root    string
	eventCh chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// New creates a ReadDirectoryChangesW watcher
func New() (*Watcher, error) {
	return &Watcher{
		eventCh: make(chan Event, 100),
		done:    make(chan struct{}),
	}, nil
}

// Events delivers deletions, creations and modifications below the watched
// root. Events are dropped while the channel is full.
func (w *Watcher) Events() <-chan Event {
	return w.eventCh
}

// AddRecursive opens root for change notification
func (w *Watcher) AddRecursive(root string) error {
	w.root = root

	pathPtr, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return err
	}

	handle, err := windows.CreateFile(
		pathPtr,
		windows.FILE_LIST_DIRECTORY,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return err
	}

	w.handle = handle
	return nil
}

// Start begins delivering events
func (w *Watcher) Start() {
	if w.handle == 0 {
		return
	}
	w.wg.Add(1)
	go w.run()
}

const notifyFilter = windows.FILE_NOTIFY_CHANGE_FILE_NAME |
	windows.FILE_NOTIFY_CHANGE_DIR_NAME |
	windows.FILE_NOTIFY_CHANGE_LAST_WRITE

func (w *Watcher) run() {
	defer w.wg.Done()
	buf := make([]byte, 64*1024)

	for {
		select {
		case <-w.done:
			return
		default:
		}

		var bytesReturned uint32
		err := windows.ReadDirectoryChanges(
			w.handle,
			&buf[0],
			uint32(len(buf)),
			true, // recursive
			notifyFilter,
			&bytesReturned,
			nil,
			0,
		)
		if err != nil {
			logging.Debug.WithError(err).Debug("ReadDirectoryChanges stopped")
			return
		}

		if bytesReturned > 0 {
			w.processEvents(buf[:bytesReturned])
		}
	}
}

// FILE_NOTIFY_INFORMATION actions
const (
	fileActionAdded          = 1
	fileActionRemoved        = 2
	fileActionModified       = 3
	fileActionRenamedOldName = 4
	fileActionRenamedNewName = 5
)

func (w *Watcher) processEvents(buf []byte) {
	for _, ev := range parseNotifications(buf, w.root) {
		select {
		case w.eventCh <- ev:
		default:
		}
	}
}

// parseNotifications decodes a FILE_NOTIFY_INFORMATION chain. Names are
// relative to root.
func parseNotifications(buf []byte, root string) []Event {
	var events []Event
	for len(buf) >= 12 {
		nextOffset := binary.LittleEndian.Uint32(buf[0:])
		action := binary.LittleEndian.Uint32(buf[4:])
		nameLen := int(binary.LittleEndian.Uint32(buf[8:]))

		var typ EventType
		known := true
		switch action {
		case fileActionRemoved, fileActionRenamedOldName:
			typ = EventDeleted
		case fileActionAdded, fileActionRenamedNewName:
			typ = EventCreated
		case fileActionModified:
			typ = EventModified
		default:
			known = false
		}

		if known && len(buf) >= 12+nameLen {
			units := make([]uint16, nameLen/2)
			for i := range units {
				units[i] = binary.LittleEndian.Uint16(buf[12+2*i:])
			}
			name := string(utf16.Decode(units))
			events = append(events, Event{Type: typ, Path: filepath.Join(root, name)})
		}

		if nextOffset == 0 || int(nextOffset) > len(buf) {
			break
		}
		buf = buf[nextOffset:]
	}
	return events
}

// Stop cancels the pending read and closes the event channel
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	if w.handle != 0 {
		// Unblock the synchronous ReadDirectoryChanges call
		_ = windows.CancelIoEx(w.handle, nil)
		windows.CloseHandle(w.handle)
	}
	w.wg.Wait()
	close(w.eventCh)
	return nil
}
