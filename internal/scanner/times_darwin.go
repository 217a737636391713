//go:build darwin

package scanner

import (
	"os"
	"syscall"
	"time"
)

// birthTime returns the folder creation time where the filesystem tracks it.
func birthTime(info os.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec), true
}
