//go:build unix

package locate

import (
	"os"

	"golang.org/x/sys/unix"
)

// flockExclusive takes an exclusive advisory lock, blocking until the
// current holder releases it.
func flockExclusive(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

func flockRelease(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
