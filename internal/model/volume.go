package model

// Volume describes the filesystem that holds a scanned directory
type Volume struct {
	Path       string
	TotalBytes int64
	FreeBytes  int64
}

// UsedBytes returns bytes used on this volume
func (v Volume) UsedBytes() int64 {
	return v.TotalBytes - v.FreeBytes
}

// UsedPercent returns percentage of the volume used
func (v Volume) UsedPercent() float64 {
	if v.TotalBytes == 0 {
		return 0
	}
	return float64(v.UsedBytes()) / float64(v.TotalBytes) * 100
}

// VolumeFor returns space information for the volume containing path.
// Sizes are zero when the platform query fails.
func VolumeFor(path string) Volume {
	total, free := getDiskSpace(path)
	return Volume{Path: path, TotalBytes: total, FreeBytes: free}
}
