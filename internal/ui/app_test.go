package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lumipallolabs/dupedive/internal/core"
	"github.com/lumipallolabs/dupedive/internal/watcher"
)

// seedDuplicates writes three identical 1000-byte files and one unique file
func seedDuplicates(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	same := bytes.Repeat([]byte{'x'}, 1000)
	var paths []string
	for _, name := range []string{"a.bin", "b/b.bin", "c/c.bin"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, same, 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	if err := os.WriteFile(filepath.Join(dir, "unique.txt"), []byte("only me"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, paths
}

// newScannedApp returns an app showing a finished scan of root
func newScannedApp(t *testing.T, root string, opts core.Options) App {
	t.Helper()
	opts.StateDir = t.TempDir()
	ctrl, err := core.NewController(root, opts)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	t.Cleanup(ctrl.Stop)

	result, err := ctrl.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	app := NewApp(ctrl, Options{Version: "test"})
	app = update(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})
	app = update(t, app, scanCompleteDelayMsg{result: result})
	t.Cleanup(app.stopWatcher)
	return app
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	return m.(App)
}

func updateCmd(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
)

// finishDelete runs the deletion command and waits for the rescan it starts
func finishDelete(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a deletion command")
	}
	msg, ok := cmd().(deleteDoneMsg)
	if !ok {
		t.Fatal("deletion command did not report completion")
	}
	a = update(t, a, msg)
	if a.scanEventCh != nil {
		for range a.scanEventCh {
		}
	}
	return a
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestAppShowsScanResult(t *testing.T) {
	root, paths := seedDuplicates(t)
	app := newScannedApp(t, root, core.Options{})

	if app.groups.Len() != 1 {
		t.Fatalf("groups = %d, want 1", app.groups.Len())
	}
	grp, ok := app.detail.Group()
	if !ok || len(grp.Members) != 3 {
		t.Fatalf("detail group = %+v", grp)
	}
	if grp.Members[0].Path != paths[0] {
		t.Errorf("first member = %s, want %s", grp.Members[0].Path, paths[0])
	}

	view := app.View()
	for _, want := range []string{"1 groups", "2 duplicates", "1.95 KB", "KEEP"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppDeleteMarked(t *testing.T) {
	root, paths := seedDuplicates(t)
	app := newScannedApp(t, root, core.Options{})

	app = update(t, app, enterKey) // review group
	if app.activePanel != PanelDetail {
		t.Fatalf("activePanel = %v, want detail", app.activePanel)
	}
	app = update(t, app, downKey)
	app = update(t, app, spaceKey)
	app = update(t, app, enterKey)

	if !app.confirm.IsVisible() || app.confirm.Action() != ConfirmDeleteMarked {
		t.Fatalf("expected delete confirmation, action = %v", app.confirm.Action())
	}

	app, cmd := updateCmd(t, app, runes("y"))
	if !app.deleting {
		t.Error("app should be deleting")
	}
	app = finishDelete(t, app, cmd)

	if exists(paths[1]) {
		t.Errorf("%s should be deleted", paths[1])
	}
	if !exists(paths[0]) || !exists(paths[2]) {
		t.Error("unmarked copies should remain")
	}
	if !strings.Contains(app.status, "Freed 1000 bytes across 1 file(s)") {
		t.Errorf("status = %q", app.status)
	}
	if app.ctrl.FreedState().Session != 1000 {
		t.Errorf("session freed = %d, want 1000", app.ctrl.FreedState().Session)
	}
}

func TestAppEveryCopyNeedsSecondConfirmation(t *testing.T) {
	root, paths := seedDuplicates(t)
	app := newScannedApp(t, root, core.Options{})

	app = update(t, app, enterKey)
	for i := 0; i < 3; i++ {
		app = update(t, app, spaceKey)
		app = update(t, app, downKey)
	}
	if !app.detail.AllMarked() {
		t.Fatal("every member should be marked")
	}

	app = update(t, app, enterKey)
	app, cmd := updateCmd(t, app, runes("y"))
	if cmd != nil {
		t.Fatal("first confirmation must not delete every copy")
	}
	if !app.confirm.IsVisible() || app.confirm.Action() != ConfirmDeleteEveryCopy {
		t.Fatalf("expected second confirmation, action = %v", app.confirm.Action())
	}
	if app.confirm.Confirmed() {
		t.Error("second confirmation should default to cancel")
	}

	// Enter on the highlighted cancel button backs out
	app = update(t, app, enterKey)
	if app.confirm.IsVisible() {
		t.Fatal("enter on cancel should close the dialog")
	}
	for _, p := range paths {
		if !exists(p) {
			t.Fatalf("%s deleted without confirmation", p)
		}
	}

	// Confirm both steps
	app = update(t, app, enterKey)
	app = update(t, app, runes("y"))
	app, cmd = updateCmd(t, app, runes("y"))
	app = finishDelete(t, app, cmd)

	for _, p := range paths {
		if exists(p) {
			t.Errorf("%s should be deleted", p)
		}
	}
}

func TestAppDeleteAllDryRun(t *testing.T) {
	root, paths := seedDuplicates(t)
	app := newScannedApp(t, root, core.Options{DryRun: true})

	app = update(t, app, runes("D"))
	if !app.confirm.IsVisible() || app.confirm.Action() != ConfirmDeleteAll {
		t.Fatalf("expected delete-all confirmation, action = %v", app.confirm.Action())
	}

	app, cmd := updateCmd(t, app, runes("y"))
	msg := cmd().(deleteDoneMsg)
	app, cmd = updateCmd(t, app, msg)
	if cmd != nil {
		t.Error("a dry run should not rescan")
	}

	for _, p := range paths {
		if !exists(p) {
			t.Errorf("dry run removed %s", p)
		}
	}
	if !strings.Contains(app.status, "Would free 1.95 KB across 2 file(s)") {
		t.Errorf("status = %q", app.status)
	}
}

func TestAppCancelDeleteAll(t *testing.T) {
	root, paths := seedDuplicates(t)
	app := newScannedApp(t, root, core.Options{})

	app = update(t, app, runes("D"))
	app, cmd := updateCmd(t, app, runes("n"))
	if cmd != nil || app.confirm.IsVisible() {
		t.Fatal("cancel should close the dialog without a command")
	}
	for _, p := range paths {
		if !exists(p) {
			t.Errorf("%s removed after cancel", p)
		}
	}
}

func TestAppEnterWithoutMarks(t *testing.T) {
	root, _ := seedDuplicates(t)
	app := newScannedApp(t, root, core.Options{})

	app = update(t, app, enterKey)
	app = update(t, app, enterKey)
	if app.confirm.IsVisible() {
		t.Error("no dialog without marked files")
	}
	if app.status == "" {
		t.Error("expected a hint to mark files")
	}
}

func TestAppStaleOnWatchEvent(t *testing.T) {
	root, paths := seedDuplicates(t)
	app := newScannedApp(t, root, core.Options{})
	if app.watch == nil {
		t.Fatal("watcher should be running after a scan")
	}

	// Events from an old watcher are ignored
	old, err := watcher.New()
	if err != nil {
		t.Fatal(err)
	}
	defer old.Stop()
	app = update(t, app, watchEventMsg{source: old, event: watcher.Event{Type: watcher.EventDeleted, Path: paths[0]}})
	if app.header.IsStale() {
		t.Error("event from a stale watcher marked the result stale")
	}

	// Unrelated paths don't matter
	app = update(t, app, watchEventMsg{source: app.watch, event: watcher.Event{Type: watcher.EventModified, Path: filepath.Join(root, "unique.txt")}})
	if app.header.IsStale() {
		t.Error("change to an unlisted file marked the result stale")
	}

	app = update(t, app, watchEventMsg{source: app.watch, event: watcher.Event{Type: watcher.EventDeleted, Path: paths[1]}})
	if !app.header.IsStale() {
		t.Error("deleting a listed file should mark the result stale")
	}
}

func TestAppToggleMapAndTab(t *testing.T) {
	root, _ := seedDuplicates(t)
	app := newScannedApp(t, root, core.Options{})

	app = update(t, app, tea.KeyMsg{Type: tea.KeyTab})
	if app.activePanel != PanelDetail {
		t.Errorf("tab: activePanel = %v, want detail", app.activePanel)
	}

	app = update(t, app, runes("m"))
	if !app.showMap || app.activePanel != PanelMap {
		t.Errorf("m: showMap = %v activePanel = %v", app.showMap, app.activePanel)
	}
	if !strings.Contains(app.View(), "a.bin") {
		t.Error("waste map should label the group")
	}

	app = update(t, app, enterKey)
	if app.showMap || app.activePanel != PanelDetail {
		t.Errorf("enter on map: showMap = %v activePanel = %v", app.showMap, app.activePanel)
	}

	app = update(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.activePanel != PanelGroups {
		t.Errorf("esc: activePanel = %v, want groups", app.activePanel)
	}
}

func TestAppHelpOverlay(t *testing.T) {
	root, _ := seedDuplicates(t)
	app := newScannedApp(t, root, core.Options{})

	app = update(t, app, runes("?"))
	if !app.help.IsVisible() || !strings.Contains(app.View(), "Delete all duplicates") {
		t.Fatal("help overlay should be shown")
	}
	app = update(t, app, runes("D"))
	if app.help.IsVisible() || app.confirm.IsVisible() {
		t.Error("any key should only close the help overlay")
	}
}

func TestAppScanEvents(t *testing.T) {
	root, _ := seedDuplicates(t)
	ctrl, err := core.NewController(root, core.Options{StateDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctrl.Stop)

	app := NewApp(ctrl, Options{})
	app = update(t, app, tea.WindowSizeMsg{Width: 100, Height: 30})
	app, _ = updateCmd(t, app, scanStartMsg{})
	if app.scanEventCh == nil {
		t.Fatal("scan should be running")
	}

	var result *core.ScanResult
	for ev := range app.scanEventCh {
		app = update(t, app, scanEventMsg{event: ev})
		if done, ok := ev.(core.ScanCompletedEvent); ok {
			result = done.Result
		}
	}
	if result == nil {
		t.Fatal("no completed event")
	}
	if !strings.Contains(app.View(), "Complete") {
		t.Error("scanning panel should show completion before the result")
	}

	app = update(t, app, scanCompleteDelayMsg{result: result})
	defer app.stopWatcher()
	if app.groups.Len() != 1 {
		t.Errorf("groups = %d, want 1", app.groups.Len())
	}
	if app.ctrl.ScanState().IsScanning() {
		t.Error("scan should be finalized")
	}
}
