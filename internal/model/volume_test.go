package model

import "testing"

func TestVolumeUsage(t *testing.T) {
	v := Volume{TotalBytes: 200, FreeBytes: 50}
	if v.UsedBytes() != 150 {
		t.Errorf("expected 150 used, got %d", v.UsedBytes())
	}
	if v.UsedPercent() != 75.0 {
		t.Errorf("expected 75%%, got %.1f%%", v.UsedPercent())
	}
	if (Volume{}).UsedPercent() != 0 {
		t.Error("expected 0% for unknown volume")
	}
}

func TestVolumeFor(t *testing.T) {
	v := VolumeFor(t.TempDir())
	if v.FreeBytes > v.TotalBytes {
		t.Errorf("free %d exceeds total %d", v.FreeBytes, v.TotalBytes)
	}
}
