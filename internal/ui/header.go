package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lumipallolabs/dupedive/internal/history"
	"github.com/lumipallolabs/dupedive/internal/model"
	"github.com/mattn/go-runewidth"
)

const headerProgressBarWidth = 20 // Width of disk usage progress bar

// Header displays the scanned root, volume space and duplicate totals (2 lines)
type Header struct {
	root         string
	volume       model.Volume
	width        int
	scanning     bool
	scanProgress string
	stats        model.ScanStats
	hasResult    bool
	delta        *history.Delta
	stale        bool
	dryRun       bool
	freedSession int64
	freedTotal   int64
	version      string
}

// NewHeader creates a new header component
func NewHeader(root, version string) Header {
	return Header{
		root:    root,
		version: version,
	}
}

// SetVolume updates the volume space shown on the first line
func (h *Header) SetVolume(v model.Volume) {
	h.volume = v
}

// SetScanning sets the scanning state
func (h *Header) SetScanning(scanning bool, progress string) {
	h.scanning = scanning
	h.scanProgress = progress
}

// ScanProgress returns the current scan progress text
func (h Header) ScanProgress() string {
	return h.scanProgress
}

// SetResult sets the duplicate totals and the change since the last scan
func (h *Header) SetResult(stats model.ScanStats, delta *history.Delta) {
	h.stats = stats
	h.delta = delta
	h.hasResult = true
	h.stale = false
}

// SetStale marks the shown result as out of date with the disk
func (h *Header) SetStale(stale bool) {
	h.stale = stale
}

// IsStale reports whether the result is marked out of date
func (h Header) IsStale() bool {
	return h.stale
}

// SetDryRun flags that deletions are simulated
func (h *Header) SetDryRun(dryRun bool) {
	h.dryRun = dryRun
}

// SetFreedStats sets the freed space statistics
func (h *Header) SetFreedStats(session, total int64) {
	h.freedSession = session
	h.freedTotal = total
}

// SetWidth sets the header width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// View renders the header
// Line 1: DupeDive 0.1.0 ~/Photos                 Free: X / Y [bar]
// Line 2: 12 groups · 30 duplicates · 1.2 GB      Recovered: X session | Y total
func (h Header) View() string {
	nameStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(ColorDim)
	labelStyle := lipgloss.NewStyle().Foreground(ColorDim)
	barFilledStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
	barEmptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	rootStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true)

	// === LINE 1: app name and root (left) | free space (right) ===
	appName := nameStyle.Render("DupeDive")
	if h.version != "" {
		appName += dimStyle.Render(" " + h.version)
	}

	var freeStats string
	if h.volume.TotalBytes > 0 {
		freeLabel := labelStyle.Render("Free: ")
		freeValue := StatsStyle.Render(fmt.Sprintf("%s / %s",
			model.FormatBytes(h.volume.FreeBytes), model.FormatBytes(h.volume.TotalBytes)))
		freeStats = freeLabel + freeValue

		fullStatsWidth := lipgloss.Width(freeStats) + 2 + headerProgressBarWidth
		if h.width >= lipgloss.Width(appName)+fullStatsWidth+24 {
			barWidth := headerProgressBarWidth
			filled := int(h.volume.UsedPercent() / 100 * float64(barWidth))
			if filled > barWidth {
				filled = barWidth
			}
			bar := barFilledStyle.Render(strings.Repeat("▓", filled)) +
				barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
			freeStats += "  " + bar
		}
	}

	// Root takes whatever room is left, trimmed from the left so the leaf stays visible
	rootRoom := h.width - lipgloss.Width(appName) - lipgloss.Width(freeStats) - 4
	line1Left := appName
	if rootRoom > 4 {
		line1Left += "  " + rootStyle.Render(truncatePath(h.root, rootRoom))
	}
	line1 := spread(line1Left, freeStats, h.width)

	// === LINE 2: duplicate totals (left) | freed stats (right) ===
	var freedStats string
	if h.freedSession > 0 || h.freedTotal > 0 {
		freedLabel := labelStyle.Render("Recovered: ")
		freedSession := lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")).
			Render(model.FormatBytes(h.freedSession) + " session")
		freedSep := dimStyle.Render(" | ")
		freedTotal := dimStyle.Render(model.FormatBytes(h.freedTotal) + " total")
		freedStats = freedLabel + freedSession + freedSep + freedTotal
	}

	var summary string
	switch {
	case h.scanning:
		summary = dimStyle.Render("Scanning… " + h.scanProgress)
	case h.hasResult:
		summary = h.summary(dimStyle)
	}

	line2 := spread(summary, freedStats, h.width)

	return lipgloss.JoinVertical(lipgloss.Left, line1, line2)
}

// summary renders the duplicate totals with optional change and state badges
func (h Header) summary(dimStyle lipgloss.Style) string {
	sep := dimStyle.Render(" · ")
	wasteStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	var parts []string
	if h.stats.IsEmpty() {
		parts = append(parts, StatsStyle.Render("No duplicates"))
	} else {
		parts = append(parts,
			StatsStyle.Render(fmt.Sprintf("%d groups", h.stats.GroupCount)),
			StatsStyle.Render(fmt.Sprintf("%d duplicates", h.stats.DuplicateFileCount)),
			wasteStyle.Render(model.FormatBytes(h.stats.WastedBytes))+dimStyle.Render(" reclaimable"),
		)
	}
	if h.delta != nil {
		parts = append(parts, dimStyle.Render("since last scan: "+h.delta.String()))
	}
	line := strings.Join(parts, sep)

	if h.dryRun {
		line += " " + KeyHint.Render("dry run")
	}
	if h.stale {
		line += " " + StaleBadge.Render("changed on disk") + dimStyle.Render(" press ") +
			KeyHint.Render("r") + dimStyle.Render(" to rescan")
	}
	return line
}

// spread places left and right on one line separated by at least two spaces
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

// truncatePath shortens path to width cells by dropping leading runes
func truncatePath(path string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(path) <= width {
		return path
	}
	const ellipsis = "…"
	room := width - runewidth.StringWidth(ellipsis)
	runes := []rune(path)
	used := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > room {
			break
		}
		used += w
		start--
	}
	return ellipsis + string(runes[start:])
}
