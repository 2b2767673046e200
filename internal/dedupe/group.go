package dedupe

import (
	"context"
	"sort"

	"github.com/lumipallolabs/dupedive/internal/logging"
	"github.com/lumipallolabs/dupedive/internal/model"
)

// FindDuplicates groups content-identical files using sequential default hashing
func FindDuplicates(records []model.FileRecord) []model.DuplicateGroup {
	groups, _ := FindDuplicatesContext(context.Background(), records, Options{})
	return groups
}

// FindDuplicatesContext runs the size filter, hashes the survivors and returns one
// DuplicateGroup per shared fingerprint. Groups come out ordered by the input position
// of their first member; callers wanting another order sort afterwards.
func FindDuplicatesContext(ctx context.Context, records []model.FileRecord, opts Options) ([]model.DuplicateGroup, error) {
	candidates := Candidates(records)
	logging.Scanner.Debugf("size filter kept %d of %d files", len(candidates), len(records))
	if len(candidates) == 0 {
		return nil, ctx.Err()
	}

	buckets, first, err := bucketByHash(ctx, candidates, opts)
	if err != nil {
		return nil, err
	}

	type ordered struct {
		group model.DuplicateGroup
		first int
	}
	var out []ordered
	for fp, members := range buckets {
		for _, same := range splitBySize(members) {
			out = append(out, ordered{
				group: model.DuplicateGroup{
					Fingerprint: fp,
					Size:        same[0].Size,
					Members:     same,
				},
				first: first[fp],
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].first != out[j].first {
			return out[i].first < out[j].first
		}
		return out[i].group.Size < out[j].group.Size
	})

	groups := make([]model.DuplicateGroup, len(out))
	for i := range out {
		groups[i] = out[i].group
	}

	logging.Scanner.Debugf("found %d duplicate groups", len(groups))
	return groups, nil
}

// splitBySize separates members whose recorded sizes differ, which only happens when a
// file changed between traversal and hashing. Singleton parts are dropped.
func splitBySize(members []model.FileRecord) [][]model.FileRecord {
	uniform := true
	for _, m := range members[1:] {
		if m.Size != members[0].Size {
			uniform = false
			break
		}
	}
	if uniform {
		return [][]model.FileRecord{members}
	}

	var order []int64
	bySize := make(map[int64][]model.FileRecord)
	for _, m := range members {
		if _, ok := bySize[m.Size]; !ok {
			order = append(order, m.Size)
		}
		bySize[m.Size] = append(bySize[m.Size], m)
	}

	var parts [][]model.FileRecord
	for _, size := range order {
		if len(bySize[size]) >= 2 {
			parts = append(parts, bySize[size])
		}
	}
	return parts
}
