//go:build windows

package ui

import "os/exec"

// previewFile opens path with its default viewer
func previewFile(path string) error {
	return exec.Command("cmd", "/c", "start", "", path).Start()
}
