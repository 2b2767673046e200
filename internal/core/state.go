package core

import (
	"time"

	"github.com/lumipallolabs/dupedive/internal/history"
	"github.com/lumipallolabs/dupedive/internal/model"
)

// ScanPhase represents the current phase of scanning
type ScanPhase int

const (
	PhaseIdle ScanPhase = iota
	PhaseScanning
	PhaseHashing
	PhaseComplete
)

// String returns a human-readable phase name
func (p ScanPhase) String() string {
	switch p {
	case PhaseScanning:
		return "Scanning files"
	case PhaseHashing:
		return "Hashing candidates"
	case PhaseComplete:
		return "Complete"
	default:
		return ""
	}
}

// ScanState holds the current scan state
type ScanState struct {
	Phase        ScanPhase
	StartTime    time.Time
	FilesScanned int64
	BytesFound   int64
	Candidates   int64
	Hashed       int64
}

// IsScanning returns true if a scan is in progress (including the brief "Complete" display)
func (s ScanState) IsScanning() bool {
	return s.Phase == PhaseScanning || s.Phase == PhaseHashing || s.Phase == PhaseComplete
}

// Elapsed returns time since scan started
func (s ScanState) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime).Truncate(time.Second)
}

// FreedState tracks space recovered from deletions
type FreedState struct {
	Session  int64 // Bytes freed this session
	Lifetime int64 // Bytes freed all time
}

// SkippedFile is a candidate left out of grouping because it could not be hashed
type SkippedFile struct {
	Path string
	Err  error
}

// ScanResult is everything one scan produced. A rescan replaces it wholesale.
type ScanResult struct {
	Root       string
	Algorithm  string
	Files      int // regular files seen by the walk
	Candidates int // files sharing a size with at least one other file
	Groups     []model.DuplicateGroup
	Stats      model.ScanStats
	Skipped    []SkippedFile
	Duration   time.Duration
	Previous   *history.Snapshot // nil on the first scan of a root
	Delta      *history.Delta
}
