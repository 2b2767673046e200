package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Colors - cyberpunk/neon palette
var (
	ColorPrimary    = lipgloss.Color("#C084FC") // soft violet
	ColorSuccess    = lipgloss.Color("#39FF14") // neon green
	ColorDanger     = lipgloss.Color("#FF5555") // red
	ColorWarning    = lipgloss.Color("#FBBF24") // amber
	ColorMuted      = lipgloss.Color("#4A5568") // darker muted
	ColorBorder     = lipgloss.Color("#4A5568") // border
	ColorBackground = lipgloss.Color("#1F1F23") // dark background
	ColorCyan       = lipgloss.Color("#00FFFF") // neon cyan
	ColorFile       = lipgloss.Color("#A0A0A0") // dimmer for files
	ColorText       = lipgloss.Color("#E4E4E7") // default text
	ColorDim        = lipgloss.Color("#9CA3AF") // labels

	// Freed space
	ColorShrunk = lipgloss.Color("#5EEAD4") // teal
)

// Styles
var (
	StatsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// Group list and detail panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ItemSelected = lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	ItemSelectedUnfocused = lipgloss.NewStyle().
				Background(lipgloss.Color("#4A5568")).
				Foreground(lipgloss.Color("#FFFFFF"))

	WasteBar = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// Help bar - dimmer with bright key highlights
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3D4555")). // very dim
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(ColorCyan).
		Background(lipgloss.Color("#1E3A4C")). // subtle dark cyan bg
		Padding(0, 1)

	// Inline key hint (for use in text)
	KeyHint = lipgloss.NewStyle().
		Foreground(ColorCyan).
		Background(lipgloss.Color("#1E3A4C")).
		Padding(0, 1)

	// Help overlay key style (no background for cleaner look)
	HelpOverlayKey = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Padding(0, 1)

	// Member markers
	KeepBadge = lipgloss.NewStyle().
			Background(lipgloss.Color("#065F46")).
			Foreground(lipgloss.Color("#A7F3D0")).
			Padding(0, 1)

	MarkedBadge = lipgloss.NewStyle().
			Background(lipgloss.Color("#7F1D1D")).
			Foreground(lipgloss.Color("#FECACA")).
			Padding(0, 1)

	ShrunkStyle = lipgloss.NewStyle().
			Foreground(ColorShrunk)

	StaleBadge = lipgloss.NewStyle().
			Background(lipgloss.Color("#78350F")).
			Foreground(lipgloss.Color("#FDE68A")).
			Padding(0, 1)
)

// FormatTime formats a time for display, using shorter format for current year
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Year() == time.Now().Year() {
		return t.Format("Jan 2 15:04")
	}
	return t.Format("Jan 2, 2006 15:04")
}
