package history

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/lumipallolabs/dupedive/internal/model"
)

const timeLayout = "2006-01-02_150405.000000000"

// ErrNoHistory is returned when a root has never been recorded
var ErrNoHistory = errors.New("no scan history")

// Snapshot is the summary of one completed scan
type Snapshot struct {
	Root      string
	Algorithm string
	Taken     time.Time
	Files     int
	Stats     model.ScanStats
}

// Store saves and loads scan snapshots
type Store struct {
	dir  string
	keep int
}

// New creates a store in dir that keeps the latest keep snapshots per root.
// keep <= 0 keeps everything.
func New(dir string, keep int) *Store {
	return &Store{dir: dir, keep: keep}
}

// DefaultDir returns the default history directory under base
func DefaultDir(base string) string {
	return filepath.Join(base, "history")
}

func rootKey(root string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(filepath.Clean(root)))
}

func (s *Store) pattern(root string) string {
	return filepath.Join(s.dir, rootKey(root)+"_*.gob.gz")
}

// Save writes a snapshot for its root
func (s *Store) Save(snap Snapshot) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	if snap.Taken.IsZero() {
		snap.Taken = time.Now()
	}

	filename := fmt.Sprintf("%s_%s.gob.gz", rootKey(snap.Root), snap.Taken.UTC().Format(timeLayout))
	path := filepath.Join(s.dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	if err := gob.NewEncoder(gzWriter).Encode(snap); err != nil {
		gzWriter.Close()
		return fmt.Errorf("encode: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return s.prune(snap.Root)
}

func (s *Store) list(root string) ([]string, error) {
	files, err := filepath.Glob(s.pattern(root))
	if err != nil {
		return nil, fmt.Errorf("glob: %w", err)
	}
	// Filenames embed a fixed-width UTC timestamp
	sort.Strings(files)
	return files, nil
}

func (s *Store) prune(root string) error {
	if s.keep <= 0 {
		return nil
	}
	files, err := s.list(root)
	if err != nil {
		return err
	}
	for len(files) > s.keep {
		if err := os.Remove(files[0]); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("prune: %w", err)
		}
		files = files[1:]
	}
	return nil
}

// LoadLatest loads the most recent snapshot for root
func (s *Store) LoadLatest(root string) (*Snapshot, error) {
	files, err := s.list(root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoHistory, root)
	}

	file, err := os.Open(files[len(files)-1])
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer gzReader.Close()

	var snap Snapshot
	if err := gob.NewDecoder(gzReader).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &snap, nil
}
