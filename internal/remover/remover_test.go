package remover

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lumipallolabs/dupedive/internal/model"
)

func writeGroup(t *testing.T, names ...string) model.DuplicateGroup {
	t.Helper()
	dir := t.TempDir()
	g := model.DuplicateGroup{Fingerprint: "f", Size: 4}
	for _, name := range names {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
		g.Members = append(g.Members, model.FileRecord{Path: p, Size: 4})
	}
	return g
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestRemoveFromGroup(t *testing.T) {
	g := writeGroup(t, "a", "b", "c")

	report, err := Remover{}.RemoveFromGroup(g, []int{1, 2, 7}, false)
	if err != nil {
		t.Fatalf("RemoveFromGroup: %v", err)
	}
	if len(report.Deleted) != 2 {
		t.Errorf("Deleted = %v, want 2 paths", report.Deleted)
	}
	if report.BytesFreed != 8 {
		t.Errorf("BytesFreed = %d, want 8", report.BytesFreed)
	}
	if !exists(g.Members[0].Path) {
		t.Error("unselected member was removed")
	}
	if exists(g.Members[1].Path) || exists(g.Members[2].Path) {
		t.Error("selected members still exist")
	}
}

func TestRemoveFromGroupRefusesAll(t *testing.T) {
	g := writeGroup(t, "a", "b")

	_, err := Remover{}.RemoveFromGroup(g, []int{0, 1}, false)
	if !errors.Is(err, ErrWouldDeleteAll) {
		t.Fatalf("err = %v, want ErrWouldDeleteAll", err)
	}
	if !exists(g.Members[0].Path) || !exists(g.Members[1].Path) {
		t.Error("files removed despite refusal")
	}

	report, err := Remover{}.RemoveFromGroup(g, []int{0, 1}, true)
	if err != nil {
		t.Fatalf("confirmed removal: %v", err)
	}
	if len(report.Deleted) != 2 {
		t.Errorf("Deleted = %v, want both", report.Deleted)
	}
}

func TestRemoveContinuesPastFailures(t *testing.T) {
	g := writeGroup(t, "a")
	files := []model.FileRecord{
		{Path: filepath.Join(t.TempDir(), "missing"), Size: 4},
		g.Members[0],
	}

	report := Remover{}.Remove(files)
	if len(report.Failed) != 1 || len(report.Deleted) != 1 {
		t.Fatalf("report = %+v, want one failure and one deletion", report)
	}
	if report.BytesFreed != 4 {
		t.Errorf("BytesFreed = %d, want 4", report.BytesFreed)
	}
}

func TestDryRunKeepsFiles(t *testing.T) {
	g := writeGroup(t, "a", "b", "c")

	report, err := Remover{DryRun: true}.RemoveDuplicates([]model.DuplicateGroup{g}, KeepFirst)
	if err != nil {
		t.Fatal(err)
	}
	if !report.DryRun || len(report.Deleted) != 2 || report.BytesFreed != 8 {
		t.Errorf("report = %+v", report)
	}
	for _, m := range g.Members {
		if !exists(m.Path) {
			t.Errorf("%s removed during dry run", m.Path)
		}
	}
}

func TestRemoveDuplicatesKeepsOnePerGroup(t *testing.T) {
	g1 := writeGroup(t, "x/long/name", "y")
	g2 := writeGroup(t, "p", "q", "r")

	report, err := Remover{}.RemoveDuplicates([]model.DuplicateGroup{g1, g2}, KeepShortest)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Deleted) != 3 {
		t.Errorf("Deleted = %v, want 3", report.Deleted)
	}
	if exists(g1.Members[0].Path) || !exists(g1.Members[1].Path) {
		t.Error("shortest path should survive in first group")
	}
	if !exists(g2.Members[0].Path) {
		t.Error("tie on length should keep first member")
	}
}

func TestKeeperByTime(t *testing.T) {
	g := writeGroup(t, "a", "b", "c")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stamps := map[string]time.Time{
		g.Members[0].Path: base.Add(time.Minute),
		g.Members[1].Path: base,
		g.Members[2].Path: base.Add(time.Hour),
	}
	orig := statTime
	statTime = func(path string) (time.Time, bool) {
		ts, ok := stamps[path]
		return ts, ok
	}
	t.Cleanup(func() { statTime = orig })

	if idx, _ := Keeper(g, KeepOldest); idx != 1 {
		t.Errorf("oldest = %d, want 1", idx)
	}
	if idx, _ := Keeper(g, KeepNewest); idx != 2 {
		t.Errorf("newest = %d, want 2", idx)
	}

	stamps[g.Members[2].Path] = base
	if idx, _ := Keeper(g, KeepOldest); idx != 1 {
		t.Errorf("oldest tie = %d, want earlier member 1", idx)
	}
}

func TestFileTime(t *testing.T) {
	g := writeGroup(t, "a")
	if _, ok := fileTime(g.Members[0].Path); !ok {
		t.Error("fileTime failed on existing file")
	}
	if _, ok := fileTime(filepath.Join(t.TempDir(), "nope")); ok {
		t.Error("fileTime succeeded on missing file")
	}
}

func TestKeeperUnreadableFallsBackToFirst(t *testing.T) {
	dir := t.TempDir()
	g := model.DuplicateGroup{Size: 1, Members: []model.FileRecord{
		{Path: filepath.Join(dir, "gone1"), Size: 1},
		{Path: filepath.Join(dir, "gone2"), Size: 1},
	}}
	idx, err := Keeper(g, KeepNewest)
	if err != nil || idx != 0 {
		t.Errorf("Keeper = %d, %v; want 0, nil", idx, err)
	}
}

func TestPlanLeavesOne(t *testing.T) {
	g := writeGroup(t, "a", "b", "c", "d")
	for _, p := range Policies() {
		indices, err := Plan(g, p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if len(indices) != len(g.Members)-1 {
			t.Errorf("%s: plan deletes %d, want %d", p, len(indices), len(g.Members)-1)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
		err  bool
	}{
		{"", KeepFirst, false},
		{"first", KeepFirst, false},
		{"Oldest", KeepOldest, false},
		{" newest ", KeepNewest, false},
		{"shortest", KeepShortest, false},
		{"largest", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.err {
			if !errors.Is(err, ErrUnknownPolicy) {
				t.Errorf("ParsePolicy(%q) err = %v, want ErrUnknownPolicy", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestPolicyDescribe(t *testing.T) {
	seen := make(map[string]Policy)
	for _, p := range Policies() {
		d := p.Describe()
		if !strings.Contains(d, "keeping") {
			t.Errorf("%s: Describe() = %q", p, d)
		}
		if other, dup := seen[d]; dup {
			t.Errorf("%s and %s share description %q", p, other, d)
		}
		seen[d] = p
	}
	if Policy("").Describe() != KeepFirst.Describe() {
		t.Error("empty policy should describe the default")
	}
}
