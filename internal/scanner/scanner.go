// Package scanner lists the regular files below a root directory.
package scanner

import (
	"context"
	"errors"

	"github.com/lumipallolabs/dupedive/internal/model"
)

// ErrNotDirectory is returned when the scan root is not a directory
var ErrNotDirectory = errors.New("not a directory")

// Progress is a running count of what the walk has found so far
type Progress struct {
	FilesScanned int64 // regular files that passed the size filter
	DirsScanned  int64
	BytesFound   int64
	CurrentPath  string // last file reported
}

// Scanner produces the file records a duplicate search starts from
type Scanner interface {
	// Scan returns the regular files below root ordered by path.
	// Progress is closed once it returns.
	Scan(ctx context.Context, root string) ([]model.FileRecord, error)
	Progress() <-chan Progress
}

var _ Scanner = (*Walker)(nil)
