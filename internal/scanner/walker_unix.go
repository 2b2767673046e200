//go:build !windows

package scanner

import (
	"io/fs"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// platformRootInfo holds platform-specific root information
type platformRootInfo struct {
	dev uint64
}

type inodeKey struct {
	dev uint64
	ino uint64
}

// getPlatformRootInfo returns platform-specific info about the root path
func getPlatformRootInfo(path string) platformRootInfo {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return platformRootInfo{}
	}
	return platformRootInfo{dev: uint64(stat.Dev)}
}

// shouldSkipDir returns true if the directory should be skipped
func shouldSkipDir(path string, d fs.DirEntry, rootInfo platformRootInfo, seenItems *sync.Map) bool {
	var stat unix.Stat_t
	if err := unix.Lstat(path, &stat); err != nil {
		return false
	}

	// Skip if different filesystem (mount point)
	if uint64(stat.Dev) != rootInfo.dev {
		return true
	}

	// Skip if already seen this inode (firmlinks on macOS)
	key := inodeKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}
	if _, exists := seenItems.LoadOrStore(key, true); exists {
		return true
	}

	return false
}

// linkKey returns the inode of info when more than one path links to it
func linkKey(info fs.FileInfo) (inodeKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || stat.Nlink <= 1 {
		return inodeKey{}, false
	}
	return inodeKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}
