package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lumipallolabs/dupedive/internal/model"
	"github.com/mattn/go-runewidth"
)

const (
	wasteBarWidth      = 4  // Width of waste proportion bar [████]
	groupNameMaxWidth  = 32 // Longest file name shown in a list row
	groupListMinWidth  = 30
	groupListEmptyText = "No duplicates found"
)

// GroupList displays duplicate groups ordered by wasted space
type GroupList struct {
	groups  []model.DuplicateGroup
	cursor  int
	offset  int // scroll offset
	width   int
	height  int
	focused bool
}

// NewGroupList creates a new group list panel
func NewGroupList() GroupList {
	return GroupList{}
}

// SetGroups replaces the listed groups. The cursor stays on the group with
// the same fingerprint when it survived, otherwise it is clamped.
func (g *GroupList) SetGroups(groups []model.DuplicateGroup) {
	var prev string
	if sel, ok := g.Selected(); ok {
		prev = sel.Fingerprint
	}

	g.groups = groups
	if prev != "" {
		for i, grp := range groups {
			if grp.Fingerprint == prev {
				g.cursor = i
				g.ensureVisible()
				return
			}
		}
	}
	if g.cursor >= len(groups) {
		g.cursor = len(groups) - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
	g.ensureVisible()
}

// Groups returns the listed groups
func (g GroupList) Groups() []model.DuplicateGroup {
	return g.groups
}

// Len returns the number of groups
func (g GroupList) Len() int {
	return len(g.groups)
}

// SetSize sets the panel dimensions
func (g *GroupList) SetSize(w, h int) {
	g.width = w
	g.height = h
	g.ensureVisible()
}

// SetFocused sets focus state
func (g *GroupList) SetFocused(focused bool) {
	g.focused = focused
}

// Cursor returns the index of the selected group
func (g GroupList) Cursor() int {
	return g.cursor
}

// SetCursor selects the group at idx
func (g *GroupList) SetCursor(idx int) {
	if idx >= 0 && idx < len(g.groups) {
		g.cursor = idx
		g.ensureVisible()
	}
}

// Selected returns the currently selected group
func (g GroupList) Selected() (model.DuplicateGroup, bool) {
	if g.cursor >= 0 && g.cursor < len(g.groups) {
		return g.groups[g.cursor], true
	}
	return model.DuplicateGroup{}, false
}

// MoveUp moves cursor up
func (g *GroupList) MoveUp() {
	if g.cursor > 0 {
		g.cursor--
		g.ensureVisible()
	}
}

// MoveDown moves cursor down
func (g *GroupList) MoveDown() {
	if g.cursor < len(g.groups)-1 {
		g.cursor++
		g.ensureVisible()
	}
}

// PageUp moves cursor up by quarter page
func (g *GroupList) PageUp() {
	g.cursor -= g.pageSize()
	if g.cursor < 0 {
		g.cursor = 0
	}
	g.ensureVisible()
}

// PageDown moves cursor down by quarter page
func (g *GroupList) PageDown() {
	g.cursor += g.pageSize()
	if g.cursor >= len(g.groups) {
		g.cursor = len(g.groups) - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
	g.ensureVisible()
}

// GoToTop moves to first item
func (g *GroupList) GoToTop() {
	g.cursor = 0
	g.offset = 0
}

// GoToBottom moves to last item
func (g *GroupList) GoToBottom() {
	g.cursor = len(g.groups) - 1
	if g.cursor < 0 {
		g.cursor = 0
	}
	g.ensureVisible()
}

func (g GroupList) pageSize() int {
	size := (g.height - 4) / 4
	if size < 1 {
		size = 1
	}
	return size
}

func (g *GroupList) ensureVisible() {
	if g.cursor < g.offset {
		g.offset = g.cursor
	}
	maxVisible := g.height - 2 // account for borders
	if maxVisible < 1 {
		maxVisible = 1
	}
	if g.cursor >= g.offset+maxVisible {
		g.offset = g.cursor - maxVisible + 1
	}
}

// RequiredWidth calculates the width needed to show every row untruncated
func (g GroupList) RequiredWidth() int {
	if len(g.groups) == 0 {
		return groupListMinWidth
	}

	maxWidth := 0
	for _, grp := range g.groups {
		if w := lipgloss.Width(g.buildLine(grp)); w > maxWidth {
			maxWidth = w
		}
	}

	// Border and padding
	return maxWidth + 4
}

// buildLine creates the text content for a group row
func (g GroupList) buildLine(grp model.DuplicateGroup) string {
	var name string
	if len(grp.Members) > 0 {
		name = runewidth.Truncate(filepath.Base(grp.Members[0].Path), groupNameMaxWidth, "…")
	}
	return fmt.Sprintf("%s %9s %3d× %s", g.wasteBar(grp), model.FormatBytes(grp.WastedSpace()), len(grp.Members), name)
}

// wasteBar shows a group's waste relative to the largest group in the list
func (g GroupList) wasteBar(grp model.DuplicateGroup) string {
	var largest int64
	if len(g.groups) > 0 {
		largest = g.groups[0].WastedSpace()
	}
	for _, other := range g.groups {
		if w := other.WastedSpace(); w > largest {
			largest = w
		}
	}

	var pct float64
	if largest > 0 {
		pct = float64(grp.WastedSpace()) / float64(largest)
	}
	filledFloat := pct * float64(wasteBarWidth)
	filled := int(filledFloat)

	var bar strings.Builder
	for j := 0; j < wasteBarWidth; j++ {
		switch {
		case j < filled:
			bar.WriteRune('█')
		case j == filled && filledFloat-float64(filled) >= 0.5:
			bar.WriteRune('▓')
		default:
			bar.WriteRune('░')
		}
	}
	return "[" + bar.String() + "]"
}

// View renders the group list
func (g GroupList) View() string {
	style := PanelStyle.Width(max(g.width-2, 1)).Height(max(g.height-2, 1))
	if g.focused {
		style = style.BorderForeground(ColorPrimary)
	}

	if len(g.groups) == 0 {
		empty := lipgloss.NewStyle().Foreground(ColorSuccess).Render(groupListEmptyText)
		return style.Render(empty)
	}

	var lines []string
	maxVisible := g.height - 2
	if maxVisible < 1 {
		maxVisible = 1
	}
	maxW := max(g.width-4, 1) // border and padding

	for i := g.offset; i < len(g.groups) && len(lines) < maxVisible; i++ {
		line := g.buildLine(g.groups[i])

		var itemStyle lipgloss.Style
		switch {
		case i == g.cursor && g.focused:
			itemStyle = ItemSelected.Width(maxW).MaxWidth(maxW)
		case i == g.cursor:
			itemStyle = ItemSelectedUnfocused.Width(maxW).MaxWidth(maxW)
		default:
			itemStyle = lipgloss.NewStyle().Foreground(ColorText).MaxWidth(maxW)
		}
		lines = append(lines, itemStyle.Render(line))
	}

	return style.Render(strings.Join(lines, "\n"))
}
