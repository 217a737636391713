//go:build windows

package scanner

import (
	"os"
	"syscall"
	"time"
)

// birthTime returns the folder creation time where the filesystem tracks it.
func birthTime(info os.FileInfo) (time.Time, bool) {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(0, data.CreationTime.Nanoseconds()), true
}
