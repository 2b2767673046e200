package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/lumipallolabs/dupedive/internal/logging"
	"github.com/lumipallolabs/dupedive/internal/model"
)

// Options filters what the walker reports
type Options struct {
	Workers int
	MinSize int64 // files smaller than this are ignored
	MaxSize int64 // files larger than this are ignored, 0 means no limit
}

// Walker implements parallel filesystem scanning
type Walker struct {
	opts       Options
	progressCh chan Progress
	progress   Progress
}

// NewWalker creates a new parallel filesystem walker
func NewWalker(opts Options) *Walker {
	if opts.Workers < 1 {
		opts.Workers = 8
	}
	return &Walker{
		opts:       opts,
		progressCh: make(chan Progress, 100),
	}
}

// Progress returns the progress channel. It is closed when Scan returns.
func (w *Walker) Progress() <-chan Progress {
	return w.progressCh
}

// Scan lists the regular files below root using fastwalk. Symlinks are not followed,
// entries whose metadata can't be read are skipped, and a hard-linked inode is
// reported once under its lexically smallest path.
func (w *Walker) Scan(ctx context.Context, root string) ([]model.FileRecord, error) {
	defer close(w.progressCh)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: %w", root, ErrNotDirectory)
	}
	if _, err := os.ReadDir(absRoot); err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	// Get platform-specific root info for mount point detection
	rootInfo := getPlatformRootInfo(absRoot)

	// Use channels for lock-free entry collection
	entryChan := make(chan model.FileRecord, 4096)
	var records []model.FileRecord
	var collectWg sync.WaitGroup

	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		for r := range entryChan {
			records = append(records, r)
		}
	}()

	// Track seen directory inodes for firmlinks
	var seenItems sync.Map

	// Hard-linked files, keyed by inode, holding the smallest path seen so far
	var linksMu sync.Mutex
	links := make(map[inodeKey]model.FileRecord)

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: w.opts.Workers,
	}

	walkErr := fastwalk.Walk(conf, absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			logging.Scanner.WithField("path", path).WithError(err).Debug("skipping unreadable entry")
			return nil
		}

		if path == absRoot {
			return nil
		}

		if d.IsDir() {
			if shouldSkipDir(path, d, rootInfo, &seenItems) {
				return fs.SkipDir
			}
			atomic.AddInt64(&w.progress.DirsScanned, 1)
			return nil
		}

		// Symlinks, devices, sockets and pipes are never candidates
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		size := info.Size()
		if size < w.opts.MinSize || (w.opts.MaxSize > 0 && size > w.opts.MaxSize) {
			return nil
		}

		key, linked := linkKey(info)
		if linked {
			linksMu.Lock()
			prev, seen := links[key]
			if !seen || path < prev.Path {
				links[key] = model.FileRecord{Path: path, Size: size}
			}
			linksMu.Unlock()
			if seen {
				return nil
			}
		}

		files := atomic.AddInt64(&w.progress.FilesScanned, 1)
		bytes := atomic.AddInt64(&w.progress.BytesFound, size)
		if files%256 == 0 {
			w.report(Progress{
				FilesScanned: files,
				DirsScanned:  atomic.LoadInt64(&w.progress.DirsScanned),
				BytesFound:   bytes,
				CurrentPath:  path,
			})
		}

		if !linked {
			entryChan <- model.FileRecord{Path: path, Size: size}
		}
		return nil
	})

	close(entryChan)
	collectWg.Wait()

	if walkErr != nil {
		return nil, walkErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.report(Progress{
		FilesScanned: atomic.LoadInt64(&w.progress.FilesScanned),
		DirsScanned:  atomic.LoadInt64(&w.progress.DirsScanned),
		BytesFound:   atomic.LoadInt64(&w.progress.BytesFound),
	})

	for _, r := range links {
		records = append(records, r)
	}

	// The walk is parallel; sorting gives a stable scan order
	model.SortRecordsByPath(records)
	logging.Scanner.Debugf("walked %s: %d files", absRoot, len(records))

	return records, nil
}

// report sends progress without ever blocking the walk
func (w *Walker) report(p Progress) {
	select {
	case w.progressCh <- p:
	default:
	}
}

// Ensure Walker implements Scanner
var _ Scanner = (*Walker)(nil)
