//go:build windows

package scanner

import (
	"io/fs"
	"sync"
)

// platformRootInfo is empty on Windows; each drive letter is its own root and
// the walk never crosses into another volume.
type platformRootInfo struct{}

func getPlatformRootInfo(string) platformRootInfo {
	return platformRootInfo{}
}

// shouldSkipDir never prunes on Windows. Junctions are reported as symlinks
// and fastwalk does not follow them.
func shouldSkipDir(string, fs.DirEntry, platformRootInfo, *sync.Map) bool {
	return false
}

type inodeKey struct{}

// linkKey always reports false. FileInfo carries no file index on
// Windows, so each hard link of a file is grouped as a separate copy.
func linkKey(fs.FileInfo) (inodeKey, bool) {
	return inodeKey{}, false
}
