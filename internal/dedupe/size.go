package dedupe

import "github.com/lumipallolabs/dupedive/internal/model"

// BucketBySize partitions records by size, keeping only sizes shared by 2+ records.
// Records keep their input order inside each bucket.
func BucketBySize(records []model.FileRecord) map[int64][]model.FileRecord {
	buckets := make(map[int64][]model.FileRecord)
	for _, r := range records {
		buckets[r.Size] = append(buckets[r.Size], r)
	}

	for size, bucket := range buckets {
		if len(bucket) < 2 {
			delete(buckets, size)
		}
	}
	return buckets
}

// Candidates returns the records that survive the size filter, in input order
func Candidates(records []model.FileRecord) []model.FileRecord {
	buckets := BucketBySize(records)
	if len(buckets) == 0 {
		return nil
	}

	candidates := make([]model.FileRecord, 0, len(records))
	for _, r := range records {
		if _, ok := buckets[r.Size]; ok {
			candidates = append(candidates, r)
		}
	}
	return candidates
}
