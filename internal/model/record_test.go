package model

import "testing"

func groupOf(size int64, paths ...string) DuplicateGroup {
	g := DuplicateGroup{Fingerprint: "abc", Size: size}
	for _, p := range paths {
		g.Members = append(g.Members, FileRecord{Path: p, Size: size})
	}
	return g
}

func TestDuplicateGroupWastedSpace(t *testing.T) {
	group := groupOf(1000, "a.txt", "b.txt", "c.txt")

	// 3 files of 1000 bytes, 2 are redundant
	if got := group.WastedSpace(); got != 2000 {
		t.Errorf("expected 2000, got %d", got)
	}
	if got := group.DuplicateCount(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := group.TotalSize(); got != 3000 {
		t.Errorf("expected 3000, got %d", got)
	}
}

func TestDuplicateGroupSaturates(t *testing.T) {
	tests := []struct {
		name  string
		group DuplicateGroup
	}{
		{"single member", groupOf(1000, "a.txt")},
		{"no members", groupOf(1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.group.WastedSpace(); got != 0 {
				t.Errorf("expected 0 wasted, got %d", got)
			}
			if got := tt.group.DuplicateCount(); got != 0 {
				t.Errorf("expected 0 duplicates, got %d", got)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	groups := []DuplicateGroup{
		groupOf(1000, "a.txt", "b.txt"),
		groupOf(500, "c.txt", "d.txt", "e.txt"),
	}

	stats := Aggregate(groups)

	if stats.GroupCount != 2 {
		t.Errorf("expected 2 groups, got %d", stats.GroupCount)
	}
	if stats.DuplicateFileCount != 3 {
		t.Errorf("expected 3 duplicate files, got %d", stats.DuplicateFileCount)
	}
	if stats.WastedBytes != 2000 {
		t.Errorf("expected 2000 wasted bytes, got %d", stats.WastedBytes)
	}

	var sum int64
	for _, g := range groups {
		sum += g.WastedSpace()
	}
	if stats.WastedBytes != sum {
		t.Errorf("aggregate %d does not match per-group sum %d", stats.WastedBytes, sum)
	}
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)
	if !stats.IsEmpty() || stats.DuplicateFileCount != 0 || stats.WastedBytes != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestPaths(t *testing.T) {
	group := groupOf(10, "z.txt", "a.txt")
	paths := group.Paths()
	if len(paths) != 2 || paths[0] != "z.txt" || paths[1] != "a.txt" {
		t.Errorf("expected scan order [z.txt a.txt], got %v", paths)
	}
}
