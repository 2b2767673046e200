package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmAction identifies what a confirmation dialog approves
type ConfirmAction int

const (
	ConfirmNone ConfirmAction = iota
	ConfirmDeleteMarked
	ConfirmDeleteEveryCopy // second step when every member of a group is marked
	ConfirmDeleteAll
)

// ConfirmDialog asks the user to approve a destructive action
type ConfirmDialog struct {
	action  ConfirmAction
	title   string
	lines   []string
	danger  bool
	choice  int // 0 = confirm, 1 = cancel
	visible bool
	width   int
	height  int
}

// NewConfirmDialog creates a hidden dialog
func NewConfirmDialog() ConfirmDialog {
	return ConfirmDialog{}
}

// Open shows the dialog for action. Danger dialogs start with cancel highlighted.
func (c *ConfirmDialog) Open(action ConfirmAction, title string, lines []string, danger bool) {
	c.action = action
	c.title = title
	c.lines = lines
	c.danger = danger
	c.choice = 0
	if danger {
		c.choice = 1
	}
	c.visible = true
}

// Close hides the dialog
func (c *ConfirmDialog) Close() {
	c.visible = false
	c.action = ConfirmNone
}

// IsVisible returns whether the dialog is visible
func (c ConfirmDialog) IsVisible() bool {
	return c.visible
}

// Action returns the action awaiting confirmation
func (c ConfirmDialog) Action() ConfirmAction {
	return c.action
}

// SetSize sets the dimensions for centering
func (c *ConfirmDialog) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// MoveUp highlights the confirm button
func (c *ConfirmDialog) MoveUp() {
	c.choice = 0
}

// MoveDown highlights the cancel button
func (c *ConfirmDialog) MoveDown() {
	c.choice = 1
}

// Confirmed reports whether the confirm button is highlighted
func (c ConfirmDialog) Confirmed() bool {
	return c.choice == 0
}

// View renders the dialog overlay
func (c ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	accent := ColorPrimary
	if c.danger {
		accent = ColorDanger
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Background(ColorBackground)

	titleStyle := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		MarginBottom(1)

	textStyle := lipgloss.NewStyle().
		Foreground(ColorText)

	buttonStyle := lipgloss.NewStyle().
		Foreground(ColorText).
		Background(lipgloss.Color("#3F3F46")).
		Padding(0, 2)

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(accent).
		Bold(true).
		Padding(0, 2)

	hintStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	var content strings.Builder
	content.WriteString(titleStyle.Render(c.title))
	content.WriteString("\n")
	for _, line := range c.lines {
		content.WriteString(textStyle.Render(line))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	confirm, cancel := buttonStyle, buttonStyle
	if c.choice == 0 {
		confirm = selectedStyle
	} else {
		cancel = selectedStyle
	}
	content.WriteString(confirm.Render("Delete") + "  " + cancel.Render("Cancel"))
	content.WriteString("\n")
	content.WriteString(hintStyle.Render("y confirm  n/Esc cancel  ←/→ choose  Enter select"))

	box := boxStyle.Render(content.String())

	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, box)
}
