package model

// ScanStats aggregates duplicate groups at a point in time
type ScanStats struct {
	GroupCount         int
	DuplicateFileCount int
	WastedBytes        int64
}

// Aggregate computes statistics from a set of duplicate groups
func Aggregate(groups []DuplicateGroup) ScanStats {
	stats := ScanStats{GroupCount: len(groups)}
	for _, g := range groups {
		stats.DuplicateFileCount += g.DuplicateCount()
		stats.WastedBytes += g.WastedSpace()
	}
	return stats
}

// IsEmpty reports whether no duplicates were found
func (s ScanStats) IsEmpty() bool {
	return s.GroupCount == 0
}
