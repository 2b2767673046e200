package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/djherbis/times"
	"github.com/gabriel-vasile/mimetype"
	"github.com/lumipallolabs/dupedive/internal/model"
)

const detailHeaderLines = 4 // summary, fingerprint, blank, member info

// GroupDetail lists the members of one group and tracks which are marked for deletion
type GroupDetail struct {
	group    model.DuplicateGroup
	hasGroup bool
	cursor   int
	offset   int
	marks    map[int]bool
	fileType string
	info     string // times of the member under the cursor
	width    int
	height   int
	focused  bool
}

// NewGroupDetail creates a new detail panel
func NewGroupDetail() GroupDetail {
	return GroupDetail{marks: make(map[int]bool)}
}

// SetGroup shows grp. Marks and cursor reset when the group changes.
func (d *GroupDetail) SetGroup(grp model.DuplicateGroup) {
	if d.hasGroup && d.group.Fingerprint == grp.Fingerprint && len(d.group.Members) == len(grp.Members) {
		d.group = grp
		return
	}
	d.group = grp
	d.hasGroup = true
	d.cursor = 0
	d.offset = 0
	d.marks = make(map[int]bool)
	d.fileType = ""
	if len(grp.Members) > 0 {
		d.fileType = getFileType(grp.Members[0].Path)
	}
	d.refreshInfo()
}

// Clear removes the shown group
func (d *GroupDetail) Clear() {
	d.group = model.DuplicateGroup{}
	d.hasGroup = false
	d.cursor = 0
	d.offset = 0
	d.marks = make(map[int]bool)
	d.fileType = ""
	d.info = ""
}

// Group returns the shown group
func (d GroupDetail) Group() (model.DuplicateGroup, bool) {
	return d.group, d.hasGroup
}

// SetSize sets the panel dimensions
func (d *GroupDetail) SetSize(w, h int) {
	d.width = w
	d.height = h
	d.ensureVisible()
}

// SetFocused sets focus state
func (d *GroupDetail) SetFocused(focused bool) {
	d.focused = focused
}

// Cursor returns the member index under the cursor
func (d GroupDetail) Cursor() int {
	return d.cursor
}

// SelectedMember returns the member under the cursor
func (d GroupDetail) SelectedMember() (model.FileRecord, bool) {
	if !d.hasGroup || d.cursor < 0 || d.cursor >= len(d.group.Members) {
		return model.FileRecord{}, false
	}
	return d.group.Members[d.cursor], true
}

// MoveUp moves cursor up
func (d *GroupDetail) MoveUp() {
	if d.cursor > 0 {
		d.cursor--
		d.ensureVisible()
		d.refreshInfo()
	}
}

// MoveDown moves cursor down
func (d *GroupDetail) MoveDown() {
	if d.cursor < len(d.group.Members)-1 {
		d.cursor++
		d.ensureVisible()
		d.refreshInfo()
	}
}

// GoToTop moves to the first member
func (d *GroupDetail) GoToTop() {
	d.cursor = 0
	d.offset = 0
	d.refreshInfo()
}

// GoToBottom moves to the last member
func (d *GroupDetail) GoToBottom() {
	if n := len(d.group.Members); n > 0 {
		d.cursor = n - 1
		d.ensureVisible()
		d.refreshInfo()
	}
}

// ToggleMark marks or unmarks the member under the cursor
func (d *GroupDetail) ToggleMark() {
	if !d.hasGroup || d.cursor >= len(d.group.Members) {
		return
	}
	if d.marks[d.cursor] {
		delete(d.marks, d.cursor)
	} else {
		d.marks[d.cursor] = true
	}
}

// IsMarked reports whether member i is marked
func (d GroupDetail) IsMarked(i int) bool {
	return d.marks[i]
}

// Marked returns the marked member indices in ascending order
func (d GroupDetail) Marked() []int {
	indices := make([]int, 0, len(d.marks))
	for i := range d.marks {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}

// MarkedBytes returns the space the marked members occupy
func (d GroupDetail) MarkedBytes() int64 {
	return d.group.Size * int64(len(d.marks))
}

// AllMarked reports whether every member is marked
func (d GroupDetail) AllMarked() bool {
	return d.hasGroup && len(d.group.Members) > 0 && len(d.marks) == len(d.group.Members)
}

// ClearMarks unmarks every member
func (d *GroupDetail) ClearMarks() {
	d.marks = make(map[int]bool)
}

func (d GroupDetail) visibleRows() int {
	rows := d.height - 2 - detailHeaderLines
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (d *GroupDetail) ensureVisible() {
	if d.cursor < d.offset {
		d.offset = d.cursor
	}
	if rows := d.visibleRows(); d.cursor >= d.offset+rows {
		d.offset = d.cursor - rows + 1
	}
}

// refreshInfo reads the times of the member under the cursor
func (d *GroupDetail) refreshInfo() {
	d.info = ""
	m, ok := d.SelectedMember()
	if !ok {
		return
	}
	ts, err := times.Stat(m.Path)
	if err != nil {
		d.info = "unreadable: " + err.Error()
		return
	}
	var parts []string
	if ts.HasBirthTime() {
		parts = append(parts, "Created "+FormatTime(ts.BirthTime()))
	}
	parts = append(parts, "Modified "+FormatTime(ts.ModTime()))
	d.info = strings.Join(parts, "  ")
}

// View renders the detail panel
func (d GroupDetail) View() string {
	style := PanelStyle.Width(max(d.width-2, 1)).Height(max(d.height-2, 1))
	if d.focused {
		style = style.BorderForeground(ColorPrimary)
	}
	if !d.hasGroup {
		return style.Render(lipgloss.NewStyle().Foreground(ColorDim).Render("Select a group"))
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	pathStyle := lipgloss.NewStyle().Foreground(ColorCyan)
	dimStyle := lipgloss.NewStyle().Foreground(ColorDim)

	innerW := d.width - 4 // border and padding
	if innerW < 1 {
		innerW = 1
	}

	grp := d.group
	var lines []string

	summary := labelStyle.Render("Size ") + valueStyle.Render(model.FormatBytes(grp.Size)) +
		labelStyle.Render("  Copies ") + valueStyle.Render(fmt.Sprintf("%d", len(grp.Members))) +
		labelStyle.Render("  Waste ") + lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(model.FormatBytes(grp.WastedSpace()))
	if d.fileType != "" {
		summary = labelStyle.Render("Type ") + valueStyle.Render(d.fileType) + "  " + summary
	}
	if n := len(d.marks); n > 0 {
		summary += "  " + MarkedBadge.Render(fmt.Sprintf("%d marked", n))
	}
	lines = append(lines, summary)
	lines = append(lines, labelStyle.Render("Fingerprint ")+dimStyle.Render(truncatePath(grp.Fingerprint, innerW-12)))
	lines = append(lines, dimStyle.Render(d.info))
	lines = append(lines, "")

	badgeWidth := lipgloss.Width(KeepBadge.Render("KEEP"))
	rows := d.visibleRows()
	for i := d.offset; i < len(grp.Members) && i < d.offset+rows; i++ {
		var badge string
		switch {
		case d.marks[i]:
			badge = MarkedBadge.Render("DEL ")
		case i == 0:
			badge = KeepBadge.Render("KEEP")
		default:
			badge = strings.Repeat(" ", badgeWidth)
		}

		pathW := innerW - badgeWidth - 1
		path := truncatePath(grp.Members[i].Path, pathW)

		var line string
		switch {
		case i == d.cursor && d.focused:
			line = badge + " " + ItemSelected.Width(pathW).MaxWidth(pathW).Render(path)
		case i == d.cursor:
			line = badge + " " + ItemSelectedUnfocused.Width(pathW).MaxWidth(pathW).Render(path)
		default:
			line = badge + " " + pathStyle.Render(path)
		}
		lines = append(lines, line)
	}

	return style.Render(strings.Join(lines, "\n"))
}

// getFileType detects file type using magic numbers
func getFileType(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	if ext := mtype.Extension(); ext != "" {
		return strings.ToUpper(strings.TrimPrefix(ext, "."))
	}
	return mtype.String()
}
