package model

import (
	"strings"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 bytes"},
		{500, "500 bytes"},
		{1023, "1023 bytes"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048575, "1024.00 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
		{5 * 1073741824, "5.00 GB"},
		{-5, "0 bytes"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatBytesUnitsNeverShrink(t *testing.T) {
	rank := func(s string) int {
		switch {
		case strings.HasSuffix(s, " GB"):
			return 3
		case strings.HasSuffix(s, " MB"):
			return 2
		case strings.HasSuffix(s, " KB"):
			return 1
		default:
			return 0
		}
	}

	prev := 0
	for _, n := range []int64{0, 1, 1023, 1024, 4096, 1 << 20, 1<<20 + 1, 1 << 30, 1 << 40} {
		r := rank(FormatBytes(n))
		if r < prev {
			t.Fatalf("unit class dropped at %d: %s", n, FormatBytes(n))
		}
		prev = r
	}
}
