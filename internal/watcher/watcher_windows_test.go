//go:build windows

package watcher

import (
	"encoding/binary"
	"path/filepath"
	"testing"
	"unicode/utf16"
)

// notification encodes one FILE_NOTIFY_INFORMATION record
func notification(action uint32, name string, last bool) []byte {
	units := utf16.Encode([]rune(name))
	size := 12 + 2*len(units)
	if rem := size % 4; rem != 0 {
		size += 4 - rem
	}
	buf := make([]byte, size)
	if !last {
		binary.LittleEndian.PutUint32(buf[0:], uint32(size))
	}
	binary.LittleEndian.PutUint32(buf[4:], action)
	binary.LittleEndian.PutUint32(buf[8:], uint32(2*len(units)))
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[12+2*i:], u)
	}
	return buf
}

func TestParseNotifications(t *testing.T) {
	root := `C:\data`
	var buf []byte
	buf = append(buf, notification(fileActionAdded, `new.bin`, false)...)
	buf = append(buf, notification(99, `ignored.bin`, false)...)
	buf = append(buf, notification(fileActionRenamedOldName, `sub\old.bin`, false)...)
	buf = append(buf, notification(fileActionModified, `日本.txt`, true)...)

	got := parseNotifications(buf, root)
	want := []Event{
		{Type: EventCreated, Path: filepath.Join(root, "new.bin")},
		{Type: EventDeleted, Path: filepath.Join(root, `sub\old.bin`)},
		{Type: EventModified, Path: filepath.Join(root, "日本.txt")},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events %+v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseNotificationsTruncated(t *testing.T) {
	buf := notification(fileActionRemoved, "gone.bin", true)
	if got := parseNotifications(buf[:14], `C:\data`); len(got) != 0 {
		t.Errorf("truncated record decoded as %+v", got)
	}
}
