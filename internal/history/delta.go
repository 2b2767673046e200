package history

import (
	"fmt"
	"time"

	"github.com/lumipallolabs/dupedive/internal/model"
)

// Delta is the change between two scans of the same root
type Delta struct {
	Since      time.Time
	Groups     int
	Duplicates int
	Bytes      int64
}

// Compare returns cur minus prev. A nil prev yields a nil delta.
func Compare(prev *Snapshot, cur model.ScanStats) *Delta {
	if prev == nil {
		return nil
	}
	return &Delta{
		Since:      prev.Taken,
		Groups:     cur.GroupCount - prev.Stats.GroupCount,
		Duplicates: cur.DuplicateFileCount - prev.Stats.DuplicateFileCount,
		Bytes:      cur.WastedBytes - prev.Stats.WastedBytes,
	}
}

// IsZero reports whether nothing changed
func (d *Delta) IsZero() bool {
	return d == nil || (d.Groups == 0 && d.Duplicates == 0 && d.Bytes == 0)
}

// String renders the delta as "+2 groups, -3 files, +1.00 MB"
func (d *Delta) String() string {
	if d.IsZero() {
		return "no change"
	}
	bytes := "+" + model.FormatBytes(d.Bytes)
	if d.Bytes < 0 {
		bytes = "-" + model.FormatBytes(-d.Bytes)
	}
	return fmt.Sprintf("%+d groups, %+d files, %s", d.Groups, d.Duplicates, bytes)
}
