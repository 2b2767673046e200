//go:build windows

package ui

import "os/exec"

// revealInFileManager opens Explorer on the parent folder with path selected
func revealInFileManager(path string) error {
	return exec.Command("explorer", "/select,"+path).Start()
}
