//go:build !darwin && !windows

package scanner

import (
	"os"
	"time"
)

// birthTime reports no creation time; most Linux filesystems do not expose
// one through os.FileInfo. Callers fall back to the time of first sight.
func birthTime(_ os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
