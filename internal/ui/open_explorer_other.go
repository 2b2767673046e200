//go:build !windows && !darwin

package ui

import (
	"os/exec"
	"path/filepath"
)

// revealInFileManager opens the folder holding path; xdg-open cannot select an item
func revealInFileManager(path string) error {
	return exec.Command("xdg-open", filepath.Dir(path)).Start()
}
