package locate

import (
	"errors"
	"fmt"
	"os"
)

// ErrCoordination reports a failure to acquire or release a coordination
// claim. It is never retried automatically.
var ErrCoordination = errors.New("file coordination failed")

// Coordinator serializes access to a file path shared with an external
// synchronization agent. Coordinate runs fn while holding an exclusive
// claim on the path, blocking until the claim is available. The claim
// must be held only for the duration of fn.
type Coordinator interface {
	Coordinate(path string, fn func() error) error
}

// FlockCoordinator implements Coordinator with an advisory file lock on
// a sidecar ".lock" file next to the coordinated path. The sidecar is
// locked rather than the database file itself because the sync agent may
// replace the database file atomically, which would orphan a lock held
// on the old inode.
type FlockCoordinator struct{}

// Coordinate acquires an exclusive lock on path's sidecar, runs fn, and
// releases the lock. Acquisition blocks against a concurrent holder.
func (FlockCoordinator) Coordinate(path string, fn func() error) error {
	lockPath := path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrCoordination, lockPath, err)
	}
	defer f.Close()

	if err := flockExclusive(f); err != nil {
		return fmt.Errorf("%w: lock %s: %v", ErrCoordination, lockPath, err)
	}
	defer flockRelease(f)

	return fn()
}

// NopCoordinator runs fn without any locking. It exists for tests and
// for callers that already hold an outer claim.
type NopCoordinator struct{}

// Coordinate runs fn directly.
func (NopCoordinator) Coordinate(path string, fn func() error) error {
	return fn()
}
