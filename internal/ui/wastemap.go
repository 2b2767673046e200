package ui

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeffwilliams/squarify"
	"github.com/lumipallolabs/dupedive/internal/model"
)

// Block is one rectangle of the waste map
type Block struct {
	Group         int // index into the map's groups, -1 for the "N more" block
	X, Y          int
	Width, Height int
	// For the remainder block
	IsGrouped  bool
	GroupCount int
	GroupSize  int64
}

// WasteMap draws duplicate groups as a treemap sized by wasted space
type WasteMap struct {
	groups   []model.DuplicateGroup
	selected int
	blocks   []Block
	width    int
	height   int
	focused  bool

	// Render cache
	cachedView     string
	cacheValid     bool
	cachedSelected int
	cachedFocused  bool
}

// NewWasteMap creates a new waste map panel
func NewWasteMap() WasteMap {
	return WasteMap{}
}

// SetGroups sets the groups to draw
func (m *WasteMap) SetGroups(groups []model.DuplicateGroup) {
	m.groups = groups
	if m.selected >= len(groups) {
		m.selected = 0
	}
	m.layout()
}

// SetSize sets the panel dimensions
func (m *WasteMap) SetSize(w, h int) {
	if m.width != w || m.height != h {
		m.width = w
		m.height = h
		m.layout()
	}
}

// SetFocused sets focus state
func (m *WasteMap) SetFocused(focused bool) {
	m.focused = focused
}

// SetSelected selects the group at idx (for sync from the list)
func (m *WasteMap) SetSelected(idx int) {
	if idx >= 0 && idx < len(m.groups) {
		m.selected = idx
	}
}

// Selected returns the index of the selected group
func (m WasteMap) Selected() int {
	return m.selected
}

// Blocks returns the laid out rectangles
func (m WasteMap) Blocks() []Block {
	return m.blocks
}

// MoveToBlock moves selection to an adjacent block
func (m *WasteMap) MoveToBlock(dx, dy int) {
	if len(m.blocks) == 0 {
		return
	}

	var current *Block
	for i := range m.blocks {
		if !m.blocks[i].IsGrouped && m.blocks[i].Group == m.selected {
			current = &m.blocks[i]
			break
		}
	}

	if current == nil {
		// Selection is inside the "N more" block; jump to the first drawn group
		for i := range m.blocks {
			if !m.blocks[i].IsGrouped {
				m.selected = m.blocks[i].Group
				return
			}
		}
		return
	}

	cx := current.X + current.Width/2
	cy := current.Y + current.Height/2

	var best *Block
	bestDist := -1

	for i := range m.blocks {
		block := &m.blocks[i]
		if block.IsGrouped || block.Group == m.selected {
			continue
		}

		bx := block.X + block.Width/2
		by := block.Y + block.Height/2

		if dx > 0 && bx <= cx {
			continue
		}
		if dx < 0 && bx >= cx {
			continue
		}
		if dy > 0 && by <= cy {
			continue
		}
		if dy < 0 && by >= cy {
			continue
		}

		dist := abs(bx-cx) + abs(by-cy)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = block
		}
	}

	if best != nil {
		m.selected = best.Group
	}
}

// wasteItem wraps a group for the squarify algorithm
type wasteItem struct {
	group    int
	size     float64
	children []*wasteItem
}

// Size implements squarify.TreeSizer
func (w *wasteItem) Size() float64 {
	return w.size
}

// NumChildren implements squarify.TreeSizer
func (w *wasteItem) NumChildren() int {
	return len(w.children)
}

// Child implements squarify.TreeSizer
func (w *wasteItem) Child(i int) squarify.TreeSizer {
	return w.children[i]
}

const (
	minBlockWidth   = 8  // minimum width for any block (fits short label)
	minBlockHeight  = 3  // minimum height for any block (border + 1 line text)
	maxVisibleItems = 15 // max groups before the remainder becomes "N more"

	wasteMapMarginH = 2 // margin for rightmost block borders
)

// contentSize returns the drawable area
func (m WasteMap) contentSize() (int, int) {
	w := m.width - wasteMapMarginH
	h := m.height
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// squarifyItems lays out items in rect and reports whether every block meets
// the minimum block size
func squarifyItems(items []*wasteItem, rect squarify.Rect) ([]squarify.Block, []squarify.Meta, bool) {
	root := &wasteItem{group: -1, children: items}
	for _, child := range items {
		root.size += child.size
	}
	blocks, metas := squarify.Squarify(root, rect, squarify.Options{
		MaxDepth: 1,
		Sort:     true,
	})

	for i, block := range blocks {
		if i >= len(metas) || metas[i].Depth != 0 {
			continue
		}
		w := int(math.Floor(block.X+block.W)) - int(math.Floor(block.X))
		h := int(math.Floor(block.Y+block.H)) - int(math.Floor(block.Y))
		if w < minBlockWidth || h < minBlockHeight {
			return blocks, metas, false
		}
	}
	return blocks, metas, true
}

// layout calculates block positions, showing as many groups as fit at the
// minimum block size and folding the rest into one "N more" strip
func (m *WasteMap) layout() {
	m.blocks = nil
	m.cacheValid = false

	if len(m.groups) == 0 || m.width <= 2 || m.height <= 2 {
		return
	}

	contentW, contentH := m.contentSize()

	items := make([]*wasteItem, 0, len(m.groups))
	for i, g := range m.groups {
		size := float64(g.WastedSpace())
		if size < 1 {
			size = 1
		}
		items = append(items, &wasteItem{group: i, size: size})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].size > items[j].size
	})

	rect := squarify.Rect{W: float64(contentW), H: float64(contentH)}

	var (
		blocks  []squarify.Block
		metas   []squarify.Meta
		shown   int
		fitting bool
	)

	for maxVisible := min(len(items), maxVisibleItems); maxVisible >= 1; maxVisible-- {
		mainRect := rect
		shown = maxVisible
		if len(items) > maxVisible {
			// The strip replaces one block so it never reads "1 more"
			mainRect.H = float64(contentH - minBlockHeight)
			shown = max(maxVisible-1, 1)
		}

		blocks, metas, fitting = squarifyItems(items[:shown], mainRect)
		if fitting {
			break
		}
	}

	maxMainEndY := 0
	for i, block := range blocks {
		item, ok := block.TreeSizer.(*wasteItem)
		if !ok || i >= len(metas) || metas[i].Depth != 0 {
			continue
		}

		// Round all edges so adjacent blocks share boundaries
		x := int(math.Round(block.X))
		y := int(math.Round(block.Y))
		endX := int(math.Round(block.X + block.W))
		endY := int(math.Round(block.Y + block.H))
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}
		if endX > contentW {
			endX = contentW
		}
		if endY > contentH {
			endY = contentH
		}
		w, h := endX-x, endY-y
		if w < 1 || h < 1 || x >= contentW || y >= contentH {
			continue
		}

		if endY > maxMainEndY {
			maxMainEndY = endY
		}
		m.blocks = append(m.blocks, Block{
			Group:  item.group,
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
		})
	}

	if rest := len(items) - shown; rest > 0 && maxMainEndY < contentH {
		var restSize int64
		for _, it := range items[shown:] {
			restSize += m.groups[it.group].WastedSpace()
		}
		height := contentH - maxMainEndY
		m.blocks = append(m.blocks, Block{
			Group:      -1,
			X:          0,
			Y:          maxMainEndY,
			Width:      contentW,
			Height:     height,
			IsGrouped:  true,
			GroupCount: rest,
			GroupSize:  restSize,
		})
	}
}

// View renders the waste map
func (m *WasteMap) View() string {
	if len(m.groups) == 0 {
		return PanelStyle.Width(max(m.width-2, 1)).Height(max(m.height-2, 1)).Render("Nothing to reclaim")
	}

	if m.cacheValid && m.cachedSelected == m.selected && m.cachedFocused == m.focused {
		return m.cachedView
	}

	_, contentH := m.contentSize()

	type renderedBlock struct {
		block Block
		lines []string
	}

	var rendered []renderedBlock
	for _, block := range m.blocks {
		if block.Width < 1 || block.Height < 1 {
			continue
		}
		rendered = append(rendered, renderedBlock{block, strings.Split(m.renderBlock(block), "\n")})
	}

	// Composite blocks row by row
	type segment struct {
		x     int
		width int
		line  string
	}
	var output []string
	for y := 0; y < contentH; y++ {
		var segments []segment
		for _, rb := range rendered {
			idx := y - rb.block.Y
			if idx >= 0 && idx < len(rb.lines) && idx < rb.block.Height {
				segments = append(segments, segment{rb.block.X, rb.block.Width, rb.lines[idx]})
			}
		}
		sort.Slice(segments, func(i, j int) bool {
			return segments[i].x < segments[j].x
		})

		var b strings.Builder
		x := 0
		for _, seg := range segments {
			if seg.x > x {
				b.WriteString(strings.Repeat(" ", seg.x-x))
			}
			b.WriteString(seg.line)
			x = seg.x + seg.width
		}
		output = append(output, b.String())
	}

	style := lipgloss.NewStyle().Height(m.height).MaxHeight(m.height)
	m.cachedView = style.Render(strings.Join(output, "\n"))
	m.cacheValid = true
	m.cachedSelected = m.selected
	m.cachedFocused = m.focused

	return m.cachedView
}

// renderBlock renders a block with its border, label and wasted size
func (m WasteMap) renderBlock(block Block) string {
	fgColor := ColorFile
	borderColor := lipgloss.Color("#6B7280")

	isSelected := !block.IsGrouped && block.Group == m.selected
	switch {
	case block.IsGrouped:
		fgColor = lipgloss.Color("#6B7280")
		borderColor = lipgloss.Color("#4B5563")
	case isSelected && m.focused:
		fgColor = lipgloss.Color("#FFFFFF")
		borderColor = ColorPrimary
	case isSelected:
		fgColor = lipgloss.Color("#E0E0E0")
		borderColor = lipgloss.Color("#9D7CD8") // dimmer violet
	}

	var label, sizeStr string
	if block.IsGrouped {
		label = fmt.Sprintf("%d more", block.GroupCount)
		sizeStr = model.FormatBytes(block.GroupSize)
	} else if block.Group >= 0 && block.Group < len(m.groups) {
		g := m.groups[block.Group]
		if len(g.Members) > 0 {
			label = filepath.Base(g.Members[0].Path)
		}
		sizeStr = fmt.Sprintf("%s ×%d", model.FormatBytes(g.WastedSpace()), len(g.Members))
	}

	innerW := max(block.Width-2, 0)
	innerH := max(block.Height-2, 0)

	text := label
	if innerH > 1 && sizeStr != "" {
		text = label + "\n" + sizeStr
	}

	blockStyle := lipgloss.NewStyle().
		Width(innerW).
		Height(innerH).
		MaxHeight(block.Height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Foreground(fgColor)
	if isSelected {
		blockStyle = blockStyle.Bold(true)
	}

	return blockStyle.Render(text)
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
