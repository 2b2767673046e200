//go:build darwin

package ui

import "os/exec"

// revealInFileManager shows path selected in its Finder window
func revealInFileManager(path string) error {
	return exec.Command("open", "-R", path).Start()
}
