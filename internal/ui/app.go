package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lumipallolabs/dupedive/internal/core"
	"github.com/lumipallolabs/dupedive/internal/logging"
	"github.com/lumipallolabs/dupedive/internal/model"
	"github.com/lumipallolabs/dupedive/internal/remover"
	"github.com/lumipallolabs/dupedive/internal/watcher"
	"github.com/sirupsen/logrus"
)

// Panel identifies which panel is active
type Panel int

const (
	PanelGroups Panel = iota
	PanelDetail
	PanelMap
)

// Message types for Bubble Tea
type (
	scanStartMsg         struct{}
	scanEventMsg         struct{ event core.Event }
	scanCompleteDelayMsg struct{ result *core.ScanResult }
	spinnerTickMsg       struct{}
	watchEventMsg        struct {
		source *watcher.Watcher
		event  watcher.Event
	}
	deleteDoneMsg struct {
		report core.DeleteReport
		err    error
	}
)

// Spinner frames - modern braille dots spinner
var spinnerFrames = []string{
	"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏",
}

// Timing constants
const (
	spinnerTickInterval = 80 * time.Millisecond
	borderRotationSpeed = 33 // milliseconds per frame
	completeDelay       = 500 * time.Millisecond
	confirmPathLimit    = 5 // paths listed in a delete confirmation
)

// Options configures the application
type Options struct {
	Version string
	Keep    remover.Policy // survivor of each group for delete-all
}

// App is the main TUI application model
type App struct {
	// Core controller (business logic)
	ctrl *core.Controller

	// UI Components
	header   Header
	groups   GroupList
	detail   GroupDetail
	wasteMap WasteMap
	help     HelpOverlay
	confirm  ConfirmDialog
	keys     KeyMap
	keep     remover.Policy

	// UI state (TUI-specific)
	activePanel Panel
	showMap     bool
	deleting    bool
	err         error
	status      string

	// Event sources (for continuing to listen after each event)
	scanEventCh <-chan core.Event
	watch       *watcher.Watcher
	watched     watcher.PathSet

	// Dimensions
	width  int
	height int
}

// NewApp creates a new application instance around ctrl
func NewApp(ctrl *core.Controller, opts Options) App {
	keep := opts.Keep
	if keep == "" {
		keep = remover.KeepFirst
	}

	app := App{
		ctrl:        ctrl,
		header:      NewHeader(ctrl.Root(), opts.Version),
		groups:      NewGroupList(),
		detail:      NewGroupDetail(),
		wasteMap:    NewWasteMap(),
		help:        NewHelpOverlay(opts.Version),
		confirm:     NewConfirmDialog(),
		keys:        DefaultKeyMap(),
		keep:        keep,
		activePanel: PanelGroups,
	}

	app.groups.SetFocused(true)
	app.header.SetScanning(true, "")
	app.header.SetDryRun(ctrl.DryRun())
	app.header.SetVolume(model.VolumeFor(ctrl.Root()))

	freed := ctrl.FreedState()
	app.header.SetFreedStats(freed.Session, freed.Lifetime)

	return app
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("DupeDive"),
		func() tea.Msg { return scanStartMsg{} },
	)
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case scanStartMsg:
		return a.startScan()

	case scanEventMsg:
		return a.handleScanEvent(msg.event)

	case scanCompleteDelayMsg:
		return a.finalizeScan(msg.result)

	case watchEventMsg:
		return a.handleWatchEvent(msg)

	case deleteDoneMsg:
		return a.handleDeleteDone(msg)

	case spinnerTickMsg:
		if a.ctrl.ScanState().IsScanning() {
			return a, tickSpinner()
		}
		return a, nil
	}

	return a, nil
}

func tickSpinner() tea.Cmd {
	return tea.Tick(spinnerTickInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// startScan begins a scan, dropping the watcher of the previous result
func (a App) startScan() (tea.Model, tea.Cmd) {
	a.stopWatcher()

	eventCh, err := a.ctrl.StartScan(context.Background())
	if err != nil {
		if errors.Is(err, core.ErrScanInProgress) {
			return a, nil
		}
		a.err = err
		return a, nil
	}

	a.scanEventCh = eventCh
	a.err = nil
	a.header.SetScanning(true, "")

	return a, tea.Batch(a.listenForScanEvents(), tickSpinner())
}

// listenForScanEvents creates a command that listens for scan events
func (a App) listenForScanEvents() tea.Cmd {
	if a.scanEventCh == nil {
		return nil
	}
	eventCh := a.scanEventCh
	return func() tea.Msg {
		event, ok := <-eventCh
		if !ok {
			return nil // Channel closed
		}
		return scanEventMsg{event: event}
	}
}

// handleScanEvent processes scan events and continues listening
func (a App) handleScanEvent(event core.Event) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case core.ScanProgressEvent:
		var progress string
		if e.Phase == core.PhaseHashing {
			progress = fmt.Sprintf("hashed %d / %d candidates", e.Hashed, e.Candidates)
		} else {
			progress = fmt.Sprintf("%d files, %s", e.FilesScanned, model.FormatBytes(e.BytesFound))
		}
		a.header.SetScanning(true, progress)
		return a, a.listenForScanEvents()

	case core.ScanPhaseChangedEvent:
		logging.Debug.WithField("phase", e.Phase.String()).Debug("[TUI] phase changed")
		return a, a.listenForScanEvents()

	case core.ErrorEvent:
		a.err = e.Err
		return a, a.listenForScanEvents()

	case core.ScanCompletedEvent:
		a.scanEventCh = nil
		if e.Err != nil {
			a.err = e.Err
			a.header.SetScanning(false, "")
			a.ctrl.FinalizeScan()
			return a, nil
		}
		// Show "Complete" briefly before showing data
		return a, tea.Tick(completeDelay, func(time.Time) tea.Msg {
			return scanCompleteDelayMsg{result: e.Result}
		})

	default:
		return a, a.listenForScanEvents()
	}
}

// finalizeScan shows a finished result and starts watching its files
func (a App) finalizeScan(result *core.ScanResult) (tea.Model, tea.Cmd) {
	a.ctrl.FinalizeScan()
	if result == nil {
		return a, nil
	}

	a.groups.SetGroups(result.Groups)
	a.wasteMap.SetGroups(result.Groups)
	a.syncDetail()

	a.header.SetScanning(false, "")
	a.header.SetResult(result.Stats, result.Delta)
	a.header.SetVolume(model.VolumeFor(result.Root))
	a.err = nil
	if n := len(result.Skipped); n > 0 {
		skipped := fmt.Sprintf("%d file(s) could not be read and were left out", n)
		if a.status != "" {
			skipped = a.status + "; " + skipped
		}
		a.status = skipped
	}
	a.updateLayout()

	return a, a.startWatcher(result)
}

// startWatcher watches the scanned root so changes to listed files mark the result stale
func (a *App) startWatcher(result *core.ScanResult) tea.Cmd {
	var paths []string
	for _, g := range result.Groups {
		paths = append(paths, g.Paths()...)
	}
	a.watched = watcher.NewPathSet(paths)

	w, err := watcher.Watch(result.Root)
	if err != nil {
		logging.Debug.WithError(err).Warn("[TUI] watcher unavailable")
		return nil
	}
	a.watch = w
	return listenForWatchEvents(w)
}

// stopWatcher stops watching the current result
func (a *App) stopWatcher() {
	if a.watch == nil {
		return
	}
	if err := a.watch.Stop(); err != nil {
		logging.Debug.WithError(err).Warn("[TUI] failed to stop watcher")
	}
	a.watch = nil
	a.watched = nil
}

// listenForWatchEvents creates a command that waits for the next change from w
func listenForWatchEvents(w *watcher.Watcher) tea.Cmd {
	eventCh := w.Events()
	return func() tea.Msg {
		event, ok := <-eventCh
		if !ok {
			return nil // Channel closed
		}
		return watchEventMsg{source: w, event: event}
	}
}

// handleWatchEvent marks the result stale when a listed file changes or a
// file appears that could form a new group
func (a App) handleWatchEvent(msg watchEventMsg) (tea.Model, tea.Cmd) {
	if msg.source != a.watch {
		return a, nil // from a watcher stopped by a rescan
	}
	if msg.event.Type == watcher.EventCreated || a.watched.Affects(msg.event) {
		if !a.header.IsStale() {
			logging.Debug.WithFields(logrus.Fields{
				"path": msg.event.Path,
				"type": msg.event.Type.String(),
			}).Info("[TUI] result is stale")
		}
		a.header.SetStale(true)
	}
	return a, listenForWatchEvents(a.watch)
}

// handleKey handles keyboard input
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay - any key closes it
	if a.help.IsVisible() {
		a.help.SetVisible(false)
		return a, nil
	}

	if a.confirm.IsVisible() {
		return a.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.stopWatcher()
		a.ctrl.Stop()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.Toggle()
		return a, nil
	}

	// Everything else needs a finished result
	if a.ctrl.ScanState().IsScanning() || a.ctrl.Result() == nil || a.deleting {
		if key.Matches(msg, a.keys.Rescan) && a.ctrl.Result() == nil && !a.ctrl.ScanState().IsScanning() {
			return a.startScan()
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Rescan):
		a.status = ""
		return a.startScan()

	case key.Matches(msg, a.keys.ToggleMap):
		a.showMap = !a.showMap
		if a.activePanel != PanelGroups {
			a.focus(a.rightPanel())
		}
		return a, nil

	case key.Matches(msg, a.keys.Tab):
		if a.activePanel == PanelGroups {
			a.focus(a.rightPanel())
		} else {
			a.focus(PanelGroups)
		}
		return a, nil

	case key.Matches(msg, a.keys.Back):
		a.focus(PanelGroups)
		return a, nil

	case key.Matches(msg, a.keys.Enter):
		return a.handleEnter()

	case key.Matches(msg, a.keys.Mark):
		if a.activePanel == PanelGroups {
			a.showMap = false
			a.focus(PanelDetail)
		}
		if a.activePanel == PanelDetail {
			a.detail.ToggleMark()
		}
		return a, nil

	case key.Matches(msg, a.keys.DeleteAll):
		a.openDeleteAll()
		return a, nil

	case key.Matches(msg, a.keys.OpenExplorer):
		if path, ok := a.selectedPath(); ok {
			logging.Debug.WithField("path", path).Debug("[TUI] reveal in file manager")
			if err := revealInFileManager(path); err != nil {
				a.err = err
			}
		}
		return a, nil

	case key.Matches(msg, a.keys.Preview):
		if path, ok := a.selectedPath(); ok {
			logging.Debug.WithField("path", path).Debug("[TUI] preview")
			if err := previewFile(path); err != nil {
				a.err = err
			}
		}
		return a, nil
	}

	return a.handleNavigation(msg)
}

// handleNavigation moves the cursor of the active panel
func (a App) handleNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.activePanel {
	case PanelGroups:
		switch {
		case key.Matches(msg, a.keys.Up):
			a.groups.MoveUp()
		case key.Matches(msg, a.keys.Down):
			a.groups.MoveDown()
		case key.Matches(msg, a.keys.PageUp):
			a.groups.PageUp()
		case key.Matches(msg, a.keys.PageDown):
			a.groups.PageDown()
		case key.Matches(msg, a.keys.Top):
			a.groups.GoToTop()
		case key.Matches(msg, a.keys.Bottom):
			a.groups.GoToBottom()
		case key.Matches(msg, a.keys.Right):
			a.focus(a.rightPanel())
			return a, nil
		default:
			return a, nil
		}
		a.syncDetail()

	case PanelDetail:
		switch {
		case key.Matches(msg, a.keys.Up):
			a.detail.MoveUp()
		case key.Matches(msg, a.keys.Down):
			a.detail.MoveDown()
		case key.Matches(msg, a.keys.Top):
			a.detail.GoToTop()
		case key.Matches(msg, a.keys.Bottom):
			a.detail.GoToBottom()
		case key.Matches(msg, a.keys.Left):
			a.focus(PanelGroups)
		}

	case PanelMap:
		switch {
		case key.Matches(msg, a.keys.Up):
			a.wasteMap.MoveToBlock(0, -1)
		case key.Matches(msg, a.keys.Down):
			a.wasteMap.MoveToBlock(0, 1)
		case key.Matches(msg, a.keys.Left):
			a.wasteMap.MoveToBlock(-1, 0)
		case key.Matches(msg, a.keys.Right):
			a.wasteMap.MoveToBlock(1, 0)
		default:
			return a, nil
		}
		a.groups.SetCursor(a.wasteMap.Selected())
		a.syncDetail()
	}
	return a, nil
}

// handleEnter reviews the selected group or asks to delete the marked members
func (a App) handleEnter() (tea.Model, tea.Cmd) {
	switch a.activePanel {
	case PanelGroups:
		if a.groups.Len() > 0 {
			a.showMap = false
			a.focus(PanelDetail)
		}
	case PanelMap:
		a.groups.SetCursor(a.wasteMap.Selected())
		a.syncDetail()
		a.showMap = false
		a.focus(PanelDetail)
	case PanelDetail:
		a.openDeleteMarked()
	}
	return a, nil
}

// rightPanel returns the panel shown next to the group list
func (a App) rightPanel() Panel {
	if a.showMap {
		return PanelMap
	}
	return PanelDetail
}

// focus moves keyboard focus to p
func (a *App) focus(p Panel) {
	a.activePanel = p
	a.groups.SetFocused(p == PanelGroups)
	a.detail.SetFocused(p == PanelDetail)
	a.wasteMap.SetFocused(p == PanelMap)
}

// syncDetail shows the selected group in the detail panel and waste map
func (a *App) syncDetail() {
	grp, ok := a.groups.Selected()
	if !ok {
		a.detail.Clear()
		return
	}
	a.detail.SetGroup(grp)
	a.wasteMap.SetSelected(a.groups.Cursor())
}

// selectedPath returns the member under the detail cursor, or the first member
// of the selected group
func (a App) selectedPath() (string, bool) {
	if a.activePanel == PanelDetail {
		if m, ok := a.detail.SelectedMember(); ok {
			return m.Path, true
		}
	}
	if grp, ok := a.groups.Selected(); ok && len(grp.Members) > 0 {
		return grp.Members[0].Path, true
	}
	return "", false
}

// dialogTitle prefixes title when deletions are simulated
func (a App) dialogTitle(title string) string {
	if a.ctrl.DryRun() {
		return "Dry run: " + title
	}
	return title
}

// openDeleteMarked asks to delete the marked members of the shown group
func (a *App) openDeleteMarked() {
	grp, ok := a.detail.Group()
	marked := a.detail.Marked()
	if !ok || len(marked) == 0 {
		a.status = "Mark files with Space first"
		return
	}

	lines := []string{fmt.Sprintf("Delete %d of %d copies, freeing %s?",
		len(marked), len(grp.Members), model.FormatBytes(a.detail.MarkedBytes()))}
	lines = append(lines, "")
	lines = append(lines, listPaths(grp, marked, a.width/2)...)

	a.confirm.Open(ConfirmDeleteMarked, a.dialogTitle("Delete marked files"), lines, false)
}

// openDeleteAll asks to delete every duplicate under the keep policy
func (a *App) openDeleteAll() {
	groups := a.groups.Groups()
	stats := model.Aggregate(groups)
	if stats.IsEmpty() {
		a.status = "Nothing to delete"
		return
	}

	lines := []string{
		fmt.Sprintf("Delete %d duplicate file(s) in %d group(s), freeing %s,",
			stats.DuplicateFileCount, stats.GroupCount, model.FormatBytes(stats.WastedBytes)),
		a.keep.Describe() + ".",
	}
	a.confirm.Open(ConfirmDeleteAll, a.dialogTitle("Delete all duplicates"), lines, true)
}

// listPaths renders up to confirmPathLimit member paths
func listPaths(grp model.DuplicateGroup, indices []int, width int) []string {
	if width < 20 {
		width = 20
	}
	var lines []string
	for i, idx := range indices {
		if i == confirmPathLimit {
			lines = append(lines, fmt.Sprintf("…and %d more", len(indices)-confirmPathLimit))
			break
		}
		if idx >= 0 && idx < len(grp.Members) {
			lines = append(lines, "  "+truncatePath(grp.Members[idx].Path, width))
		}
	}
	return lines
}

// handleConfirmKey drives the confirmation dialog
func (a App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "enter":
		if !a.confirm.Confirmed() {
			a.confirm.Close()
			return a, nil
		}
		return a.acceptConfirm()
	case key.Matches(msg, a.keys.Confirm):
		return a.acceptConfirm()
	case key.Matches(msg, a.keys.Cancel):
		a.confirm.Close()
		return a, nil
	case key.Matches(msg, a.keys.Left), key.Matches(msg, a.keys.Up):
		a.confirm.MoveUp()
	case key.Matches(msg, a.keys.Right), key.Matches(msg, a.keys.Down), key.Matches(msg, a.keys.Tab):
		a.confirm.MoveDown()
	}
	return a, nil
}

// acceptConfirm runs the confirmed action. Marking every copy of a group
// needs a second confirmation before anything is removed.
func (a App) acceptConfirm() (tea.Model, tea.Cmd) {
	action := a.confirm.Action()
	a.confirm.Close()

	grp, _ := a.detail.Group()
	marked := a.detail.Marked()

	switch action {
	case ConfirmDeleteMarked:
		if a.detail.AllMarked() {
			lines := []string{
				fmt.Sprintf("Every copy of this file is marked (%d files).", len(grp.Members)),
				"No copy will remain. This cannot be undone.",
			}
			a.confirm.Open(ConfirmDeleteEveryCopy, a.dialogTitle("Delete every copy?"), lines, true)
			return a, nil
		}
		return a.runDelete(func(c *core.Controller) (core.DeleteReport, error) {
			return c.DeleteFiles(grp, marked, false)
		})

	case ConfirmDeleteEveryCopy:
		return a.runDelete(func(c *core.Controller) (core.DeleteReport, error) {
			return c.DeleteFiles(grp, marked, true)
		})

	case ConfirmDeleteAll:
		groups, keep := a.groups.Groups(), a.keep
		return a.runDelete(func(c *core.Controller) (core.DeleteReport, error) {
			return c.DeleteAllDuplicates(groups, keep)
		})
	}
	return a, nil
}

// runDelete performs a deletion off the UI goroutine
func (a App) runDelete(del func(*core.Controller) (core.DeleteReport, error)) (tea.Model, tea.Cmd) {
	a.deleting = true
	a.status = "Deleting…"
	ctrl := a.ctrl
	return a, func() tea.Msg {
		report, err := del(ctrl)
		return deleteDoneMsg{report: report, err: err}
	}
}

// handleDeleteDone reports a finished deletion and rescans
func (a App) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	a.deleting = false
	a.detail.ClearMarks()
	a.header.SetFreedStats(msg.report.Freed.Session, msg.report.Freed.Lifetime)
	a.status = deleteStatus(msg.report.Report)

	if msg.err != nil {
		a.err = msg.err
		if errors.Is(msg.err, remover.ErrWouldDeleteAll) {
			return a, nil
		}
	}
	if msg.report.DryRun {
		return a, nil
	}
	return a.startScan()
}

// deleteStatus summarizes a removal for the status line
func deleteStatus(r remover.Report) string {
	verb := "Freed"
	if r.DryRun {
		verb = "Would free"
	}
	s := fmt.Sprintf("%s %s across %d file(s)", verb, model.FormatBytes(r.BytesFreed), len(r.Deleted))
	if n := len(r.Failed); n > 0 {
		s += fmt.Sprintf(", %d failed", n)
	}
	return s
}

// updateLayout calculates component sizes
func (a *App) updateLayout() {
	headerHeight := 2
	statusHeight := 1
	helpBarHeight := 1

	panelHeight := a.height - headerHeight - statusHeight - helpBarHeight
	if panelHeight < 3 {
		panelHeight = 3
	}

	listWidth := a.groups.RequiredWidth()
	if maxWidth := a.width / 2; listWidth > maxWidth {
		listWidth = maxWidth
	}
	if listWidth < groupListMinWidth {
		listWidth = groupListMinWidth
	}
	rightWidth := a.width - listWidth
	if rightWidth < 10 {
		rightWidth = 10
	}

	a.header.SetWidth(a.width)
	a.groups.SetSize(listWidth, panelHeight)
	a.detail.SetSize(rightWidth, panelHeight)
	a.wasteMap.SetSize(rightWidth, panelHeight)
	a.help.SetSize(a.width, a.height)
	a.confirm.SetSize(a.width, a.height)
}

// View implements tea.Model
func (a App) View() string {
	state := a.ctrl.ScanState()
	result := a.ctrl.Result()

	if a.width == 0 || a.height == 0 {
		if state.IsScanning() {
			return "Scanning for duplicates..."
		}
		return "Loading..."
	}

	if a.help.IsVisible() {
		return a.renderOverlay(a.help.View())
	}
	if a.confirm.IsVisible() {
		return a.renderOverlay(a.confirm.View())
	}

	var sections []string
	sections = append(sections, a.header.View())

	if state.IsScanning() || result == nil {
		sections = append(sections, a.renderScanningPanel(state))
	} else {
		sections = append(sections, a.renderMainPanels())
	}

	sections = append(sections, a.statusLine(), HelpBar(a.width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// statusLine shows the last error or action outcome
func (a App) statusLine() string {
	style := lipgloss.NewStyle().Padding(0, 1).MaxWidth(a.width).MaxHeight(1)
	switch {
	case a.err != nil:
		return style.Foreground(ColorDanger).Render(fmt.Sprintf("Error: %v", a.err))
	case a.status != "":
		return style.Foreground(ColorShrunk).Render(a.status)
	}
	return ""
}

// renderOverlay renders an overlay centered on screen
func (a App) renderOverlay(overlay string) string {
	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Center,
		overlay,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorBackground),
	)
}

// renderMainPanels renders the group list beside the detail panel or waste map
func (a App) renderMainPanels() string {
	var right string
	if a.showMap {
		right = a.wasteMap.View()
	} else {
		right = a.detail.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, a.groups.View(), right)
}

// renderScanningPanel renders the scanning progress panel
func (a App) renderScanningPanel(state core.ScanState) string {
	panelHeight := a.height - 4
	if panelHeight < 1 {
		panelHeight = 1
	}

	var logLines []string
	doneStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	spinnerStyle := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)

	spinnerIdx := int(time.Now().UnixMilli()/spinnerTickInterval.Milliseconds()) % len(spinnerFrames)
	spinner := spinnerFrames[spinnerIdx]

	// Hashing progress is known once the candidates are counted
	var progressBar string
	if state.Phase == core.PhaseHashing && state.Candidates > 0 {
		progress := float64(state.Hashed) / float64(state.Candidates)
		if progress > 1.0 {
			progress = 1.0
		}
		maxDots := 20
		numDots := int(progress * float64(maxDots))
		dotStyle := lipgloss.NewStyle().Foreground(ColorCyan)
		emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#3F3F46"))
		progressBar = " " + dotStyle.Render("[") + dotStyle.Render(strings.Repeat("·", numDots)) +
			emptyStyle.Render(strings.Repeat("·", maxDots-numDots)) + dotStyle.Render("]")
	}

	for _, phase := range []core.ScanPhase{core.PhaseScanning, core.PhaseHashing, core.PhaseComplete} {
		if phase > state.Phase {
			break
		}
		var line string
		if phase < state.Phase || phase == core.PhaseComplete {
			line = fmt.Sprintf("  %s %s", doneStyle.Render("✓"), doneStyle.Render(phase.String()))
		} else {
			textStyle := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
			line = fmt.Sprintf("  %s %s%s", spinnerStyle.Render(spinner), textStyle.Render(phase.String()), progressBar)
		}
		logLines = append(logLines, line)
	}

	if state.FilesScanned > 0 {
		labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
		fileStyle := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
		dataStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
		timeStyle := lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)

		logLines = append(logLines, "")
		logLines = append(logLines, fmt.Sprintf("    %s  %s", labelStyle.Render("FILES"), fileStyle.Render(fmt.Sprintf("%d files", state.FilesScanned))))
		logLines = append(logLines, fmt.Sprintf("    %s   %s", labelStyle.Render("DATA"), dataStyle.Render(model.FormatBytes(state.BytesFound))))
		if state.Phase >= core.PhaseHashing {
			logLines = append(logLines, fmt.Sprintf("    %s %s", labelStyle.Render("HASHED"), fileStyle.Render(fmt.Sprintf("%d / %d", state.Hashed, state.Candidates))))
		}
		logLines = append(logLines, fmt.Sprintf("    %s   %s", labelStyle.Render("TIME"), timeStyle.Render(state.Elapsed().String())))
	}

	logContent := strings.Join(logLines, "\n")
	innerContent := lipgloss.NewStyle().
		Padding(0, 3).
		Width(48).
		Render(logContent)

	boxHeight := 11
	scanningBox := renderSpinningBorder(
		lipgloss.Place(48, boxHeight-2, lipgloss.Left, lipgloss.Center, innerContent),
		50, boxHeight, time.Now())

	return lipgloss.Place(a.width, panelHeight, lipgloss.Center, lipgloss.Center, scanningBox)
}

// renderSpinningBorder draws a box with spinning gradient border
func renderSpinningBorder(content string, width, height int, t time.Time) string {
	shades := []string{
		"#00FFFF", "#30EBE0", "#5EEAD4", "#70E0D8", "#85D5E0", "#9AC5E8", "#A8B0F0", "#B89AF8",
		"#C084FC", "#C880F0", "#D080E8", "#D87CDE", "#E07CD4", "#F079CC", "#FF79C6", "#F079CC",
		"#E07CD4", "#D87CDE", "#D080E8", "#C880F0", "#C084FC", "#B89AF8", "#A8B0F0", "#9AC5E8",
		"#85D5E0", "#70E0D8", "#5EEAD4", "#30EBE0",
	}

	innerW := width - 2
	innerH := height - 2
	perimeter := 2*innerW + 2*innerH + 4

	offset := int(t.UnixMilli()/borderRotationSpeed) % perimeter

	colorAt := func(pos int) lipgloss.Style {
		adjusted := (pos - offset + perimeter) % perimeter
		idx := (adjusted * len(shades) / perimeter) % len(shades)
		return lipgloss.NewStyle().Foreground(lipgloss.Color(shades[idx]))
	}

	const (
		topLeft     = "╭"
		topRight    = "╮"
		bottomLeft  = "╰"
		bottomRight = "╯"
		horizontal  = "─"
		vertical    = "│"
	)

	var b strings.Builder
	pos := 0

	b.WriteString(colorAt(pos).Render(topLeft))
	pos++
	for i := 0; i < innerW; i++ {
		b.WriteString(colorAt(pos).Render(horizontal))
		pos++
	}
	b.WriteString(colorAt(pos).Render(topRight))
	pos++
	b.WriteString("\n")

	lines := strings.Split(content, "\n")
	for len(lines) < innerH {
		lines = append(lines, "")
	}

	for i := 0; i < innerH; i++ {
		b.WriteString(colorAt(perimeter - 1 - i).Render(vertical))

		line := lines[i]
		if w := lipgloss.Width(line); w < innerW {
			line += strings.Repeat(" ", innerW-w)
		}
		b.WriteString(line)

		b.WriteString(colorAt(pos).Render(vertical))
		pos++
		b.WriteString("\n")
	}

	bottomStart := pos
	b.WriteString(colorAt(perimeter - innerH - 1).Render(bottomLeft))
	for i := 0; i < innerW; i++ {
		b.WriteString(colorAt(bottomStart + innerW - i).Render(horizontal))
	}
	b.WriteString(colorAt(bottomStart).Render(bottomRight))

	return b.String()
}
