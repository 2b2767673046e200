package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumipallolabs/dupedive/internal/model"
)

// makeGroups builds n groups with decreasing waste
func makeGroups(n int) []model.DuplicateGroup {
	groups := make([]model.DuplicateGroup, n)
	for i := range groups {
		size := int64((n - i) * 1024)
		groups[i] = model.DuplicateGroup{
			Fingerprint: fmt.Sprintf("fp%02d", i),
			Size:        size,
			Members: []model.FileRecord{
				{Path: fmt.Sprintf("/data/a/file%02d.bin", i), Size: size},
				{Path: fmt.Sprintf("/data/b/file%02d.bin", i), Size: size},
			},
		}
	}
	return groups
}

func TestGroupListNavigation(t *testing.T) {
	list := NewGroupList()
	list.SetSize(40, 10)
	list.SetGroups(makeGroups(20))

	list.MoveUp()
	if list.Cursor() != 0 {
		t.Errorf("MoveUp at top: cursor = %d, want 0", list.Cursor())
	}

	list.MoveDown()
	list.MoveDown()
	if list.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", list.Cursor())
	}

	list.GoToBottom()
	if list.Cursor() != 19 {
		t.Errorf("GoToBottom: cursor = %d, want 19", list.Cursor())
	}
	if list.offset != 19-(10-2)+1 {
		t.Errorf("offset = %d, want the last page", list.offset)
	}

	list.PageDown()
	if list.Cursor() != 19 {
		t.Errorf("PageDown past end: cursor = %d, want 19", list.Cursor())
	}

	list.GoToTop()
	if list.Cursor() != 0 || list.offset != 0 {
		t.Errorf("GoToTop: cursor = %d offset = %d", list.Cursor(), list.offset)
	}

	list.PageUp()
	if list.Cursor() != 0 {
		t.Errorf("PageUp at top: cursor = %d", list.Cursor())
	}
}

func TestGroupListKeepsSelectionAcrossRefresh(t *testing.T) {
	groups := makeGroups(5)
	list := NewGroupList()
	list.SetSize(40, 10)
	list.SetGroups(groups)
	list.SetCursor(3)

	// Same groups in a different order
	reordered := []model.DuplicateGroup{groups[3], groups[0], groups[1], groups[2], groups[4]}
	list.SetGroups(reordered)

	sel, ok := list.Selected()
	if !ok || sel.Fingerprint != "fp03" {
		t.Errorf("selected = %q, want fp03", sel.Fingerprint)
	}
	if list.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", list.Cursor())
	}
}

func TestGroupListClampsWhenSelectionGone(t *testing.T) {
	list := NewGroupList()
	list.SetSize(40, 10)
	list.SetGroups(makeGroups(5))
	list.GoToBottom()

	list.SetGroups(makeGroups(5)[:2])
	if list.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", list.Cursor())
	}

	list.SetGroups(nil)
	if _, ok := list.Selected(); ok {
		t.Error("Selected() on empty list should report false")
	}
	if !strings.Contains(list.View(), groupListEmptyText) {
		t.Errorf("empty view should say %q", groupListEmptyText)
	}
}

func TestWasteBar(t *testing.T) {
	groups := makeGroups(4) // waste 4, 3, 2, 1 KiB
	list := NewGroupList()
	list.SetGroups(groups)

	tests := []struct {
		idx  int
		want string
	}{
		{0, "[████]"},
		{1, "[███░]"},
		{2, "[██░░]"},
		{3, "[█░░░]"},
	}
	for _, tt := range tests {
		if got := list.wasteBar(groups[tt.idx]); got != tt.want {
			t.Errorf("wasteBar(group %d) = %s, want %s", tt.idx, got, tt.want)
		}
	}
}

func TestGroupListRow(t *testing.T) {
	list := NewGroupList()
	groups := makeGroups(1)
	list.SetGroups(groups)

	line := list.buildLine(groups[0])
	for _, want := range []string{"1.00 KB", "2×", "file00.bin"} {
		if !strings.Contains(line, want) {
			t.Errorf("row %q missing %q", line, want)
		}
	}
	if w := list.RequiredWidth(); w < len([]rune(line)) {
		t.Errorf("RequiredWidth = %d, narrower than row %q", w, line)
	}
}

func writeMembers(t *testing.T, n int, content string) model.DuplicateGroup {
	t.Helper()
	dir := t.TempDir()
	grp := model.DuplicateGroup{Fingerprint: "fp", Size: int64(len(content))}
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("copy%d.txt", i))
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		grp.Members = append(grp.Members, model.FileRecord{Path: p, Size: grp.Size})
	}
	return grp
}

func TestGroupDetailMarks(t *testing.T) {
	grp := writeMembers(t, 3, "hello duplicate world\n")
	d := NewGroupDetail()
	d.SetSize(60, 20)
	d.SetGroup(grp)

	if d.fileType != "TXT" {
		t.Errorf("fileType = %q, want TXT", d.fileType)
	}
	if !strings.Contains(d.info, "Modified") {
		t.Errorf("info = %q, want modification time", d.info)
	}

	d.MoveDown()
	d.MoveDown()
	d.ToggleMark()
	d.MoveUp()
	d.ToggleMark()

	if got := d.Marked(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Marked() = %v, want [1 2]", got)
	}
	if d.MarkedBytes() != 2*grp.Size {
		t.Errorf("MarkedBytes() = %d, want %d", d.MarkedBytes(), 2*grp.Size)
	}
	if d.AllMarked() {
		t.Error("AllMarked() with 2 of 3 marked")
	}

	d.GoToTop()
	d.ToggleMark()
	if !d.AllMarked() {
		t.Error("AllMarked() should be true with every member marked")
	}

	// Toggling again unmarks
	d.ToggleMark()
	if d.IsMarked(0) {
		t.Error("member 0 still marked after second toggle")
	}

	// Refreshing the same group keeps marks
	d.SetGroup(grp)
	if len(d.Marked()) != 2 {
		t.Errorf("marks after refresh = %v, want 2 kept", d.Marked())
	}

	// A different group resets them
	other := grp
	other.Fingerprint = "other"
	d.SetGroup(other)
	if len(d.Marked()) != 0 || d.Cursor() != 0 {
		t.Errorf("marks = %v cursor = %d after switching groups", d.Marked(), d.Cursor())
	}
}

func TestGroupDetailView(t *testing.T) {
	grp := writeMembers(t, 2, "same bytes")
	d := NewGroupDetail()
	d.SetSize(80, 12)

	if !strings.Contains(d.View(), "Select a group") {
		t.Error("empty detail should prompt for a group")
	}

	d.SetGroup(grp)
	d.MoveDown()
	d.ToggleMark()
	view := d.View()
	for _, want := range []string{"KEEP", "DEL", "1 marked", "copy0.txt", "copy1.txt"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestGroupDetailUnreadableMember(t *testing.T) {
	d := NewGroupDetail()
	d.SetGroup(model.DuplicateGroup{
		Fingerprint: "gone",
		Size:        10,
		Members: []model.FileRecord{
			{Path: filepath.Join(t.TempDir(), "missing-a"), Size: 10},
			{Path: filepath.Join(t.TempDir(), "missing-b"), Size: 10},
		},
	})
	if d.fileType != "" {
		t.Errorf("fileType = %q for a missing file", d.fileType)
	}
	if !strings.HasPrefix(d.info, "unreadable") {
		t.Errorf("info = %q, want unreadable", d.info)
	}
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		path  string
		width int
		want  string
	}{
		{"/a/b/c.txt", 20, "/a/b/c.txt"},
		{"/a/b/c.txt", 10, "/a/b/c.txt"},
		{"/a/b/c.txt", 6, "…c.txt"},
		{"/photos/日本/写真.jpg", 10, "…/写真.jpg"},
		{"/a/b/c.txt", 0, ""},
	}
	for _, tt := range tests {
		if got := truncatePath(tt.path, tt.width); got != tt.want {
			t.Errorf("truncatePath(%q, %d) = %q, want %q", tt.path, tt.width, got, tt.want)
		}
	}
}

func TestConfirmDialog(t *testing.T) {
	c := NewConfirmDialog()
	c.SetSize(80, 24)
	if c.IsVisible() || c.View() != "" {
		t.Fatal("new dialog should be hidden")
	}

	c.Open(ConfirmDeleteMarked, "Delete marked files", []string{"Delete 1 of 2 copies?"}, false)
	if !c.Confirmed() {
		t.Error("plain dialog should start on the confirm button")
	}
	if !strings.Contains(c.View(), "Delete 1 of 2 copies?") {
		t.Error("view missing body text")
	}

	c.Open(ConfirmDeleteEveryCopy, "Delete every copy?", nil, true)
	if c.Confirmed() {
		t.Error("danger dialog should start on cancel")
	}
	c.MoveUp()
	if !c.Confirmed() {
		t.Error("MoveUp should select confirm")
	}
	if c.Action() != ConfirmDeleteEveryCopy {
		t.Errorf("Action() = %v", c.Action())
	}

	c.Close()
	if c.IsVisible() || c.Action() != ConfirmNone {
		t.Error("Close should hide and reset the dialog")
	}
}

func TestHeaderSummary(t *testing.T) {
	h := NewHeader("/data", "0.1.0")
	h.SetWidth(160)
	h.SetVolume(model.Volume{Path: "/data", TotalBytes: 1 << 30, FreeBytes: 1 << 29})
	h.SetResult(model.ScanStats{GroupCount: 2, DuplicateFileCount: 3, WastedBytes: 3072}, nil)
	h.SetFreedStats(1024, 4096)

	view := h.View()
	for _, want := range []string{"DupeDive", "/data", "2 groups", "3 duplicates", "3.00 KB", "Free:", "1.00 KB session", "4.00 KB total"} {
		if !strings.Contains(view, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if strings.Contains(view, "changed on disk") {
		t.Error("fresh result should not be stale")
	}

	h.SetStale(true)
	if !strings.Contains(h.View(), "changed on disk") {
		t.Error("stale header should say so")
	}

	// A new result clears the stale marker
	h.SetResult(model.ScanStats{}, nil)
	if h.IsStale() {
		t.Error("SetResult should clear stale")
	}
	if !strings.Contains(h.View(), "No duplicates") {
		t.Error("empty result should say No duplicates")
	}
}
