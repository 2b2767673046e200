//go:build !windows

package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestWalkerHardLinkPathIsStable(t *testing.T) {
	tmp := t.TempDir()
	var first string
	for i := 0; i < 16; i++ {
		dir := filepath.Join(tmp, fmt.Sprintf("d%02d", i))
		if err := os.Mkdir(dir, 0755); err != nil {
			t.Fatal(err)
		}
		p := filepath.Join(dir, "f.bin")
		if i == 0 {
			first = p
			if err := os.WriteFile(p, []byte("linked content"), 0644); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.Link(first, p); err != nil {
			t.Skipf("hard links unsupported: %v", err)
		}
	}

	for run := 0; run < 50; run++ {
		records, err := NewWalker(Options{Workers: 8}).Scan(context.Background(), tmp)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 {
			t.Fatalf("run %d: expected one record, got %d", run, len(records))
		}
		if records[0].Path != first {
			t.Fatalf("run %d: kept %s, want %s", run, records[0].Path, first)
		}
	}
}

func TestWalkerHardLinkOutsideSizeWindow(t *testing.T) {
	tmp := t.TempDir()
	big := filepath.Join(tmp, "a.bin")
	if err := os.WriteFile(big, make([]byte, 64), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Link(big, filepath.Join(tmp, "b.bin")); err != nil {
		t.Skipf("hard links unsupported: %v", err)
	}

	records, err := NewWalker(Options{MinSize: 100}).Scan(context.Background(), tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records below the size floor, got %v", records)
	}
}
