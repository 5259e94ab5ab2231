package watch

import (
	"os"
	"time"
)

// statFile probes the file's transfer status after a notification.
// Returns ok=false when the file cannot be inspected (mid-replace).
func statFile(path string) (int64, time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, time.Time{}, false
	}
	return info.Size(), info.ModTime(), true
}
