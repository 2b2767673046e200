// Package ui implements the interactive duplicate browser for dupedive using Bubble Tea.
//
// The App model drives a core.Controller: it starts scans, shows progress,
// lists duplicate groups and lets the user mark and delete copies. Deletions
// always trigger a rescan, and a filesystem watcher marks the result stale
// when listed files change on disk.
package ui
