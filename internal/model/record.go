package model

// FileRecord identifies one regular file considered for deduplication
type FileRecord struct {
	Path string
	Size int64 // bytes, never negative
}

// DuplicateGroup is a set of two or more files with identical content
type DuplicateGroup struct {
	Fingerprint string // content digest shared by all members
	Size        int64  // size of each member
	Members     []FileRecord

	// Members are in scan order; Members[0] is the conventional keeper
}

// Paths returns member paths in scan order
func (g DuplicateGroup) Paths() []string {
	paths := make([]string, len(g.Members))
	for i, m := range g.Members {
		paths[i] = m.Path
	}
	return paths
}

// DuplicateCount returns how many members could be removed while keeping one copy
func (g DuplicateGroup) DuplicateCount() int {
	if len(g.Members) < 2 {
		return 0
	}
	return len(g.Members) - 1
}

// WastedSpace returns the bytes reclaimable by keeping exactly one member
func (g DuplicateGroup) WastedSpace() int64 {
	return g.Size * int64(g.DuplicateCount())
}

// TotalSize returns the bytes occupied by all members
func (g DuplicateGroup) TotalSize() int64 {
	return g.Size * int64(len(g.Members))
}
