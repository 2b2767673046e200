package model

import "sort"

// SortGroups sorts groups by wasted space descending, then by first member path
func SortGroups(groups []DuplicateGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		wi, wj := groups[i].WastedSpace(), groups[j].WastedSpace()
		if wi != wj {
			return wi > wj
		}
		return firstPath(groups[i]) < firstPath(groups[j])
	})
}

// SortRecordsByPath sorts records by path ascending
func SortRecordsByPath(records []FileRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
}

func firstPath(g DuplicateGroup) string {
	if len(g.Members) == 0 {
		return ""
	}
	return g.Members[0].Path
}
