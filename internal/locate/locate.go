// Package locate decides where the canonical database file lives and
// moves a pre-existing file there exactly once.
//
// The database lives either inside a sync-service container (so an
// external agent can replicate it across devices) or, when no container
// is available, in the local documents directory. A legacy location under
// the application-support directory is consulted only as a one-time
// migration source and as a fallback when relocation fails.
package locate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the fixed name of the database file at every location.
const FileName = "gymtrack.sqlite"

// companionSuffixes are the write-ahead companion files SQLite leaves
// next to a database running in WAL mode.
var companionSuffixes = []string{"-wal", "-shm"}

// Resolve returns the canonical database path for this launch.
//
// When syncDir is non-empty the canonical location is its Documents
// subdirectory; otherwise it is documentsDir. The chosen directory is
// created if absent. Resolve performs no other I/O and is deterministic
// given its inputs.
func Resolve(syncDir, documentsDir string) (string, error) {
	dir := documentsDir
	if syncDir != "" {
		dir = filepath.Join(syncDir, "Documents")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create database directory: %w", err)
	}
	return filepath.Join(dir, FileName), nil
}

// LegacyPath returns the pre-relocation database path under the
// application-support directory.
func LegacyPath(appSupportDir string) string {
	return filepath.Join(appSupportDir, "GymTrack", FileName)
}

// Relocate moves the database from legacyPath to canonicalPath if the
// legacy file exists and no file is present at the canonical path yet.
//
// The move runs under a coordination claim on the canonical path so it
// cannot tear a concurrent write by the sync agent. Write-ahead companion
// files at the legacy location are deleted best-effort after the move.
//
// Relocate is idempotent and safe to call on every launch: it returns
// (false, nil) when there is nothing to do. On failure the caller should
// fall back via FallbackPath rather than abort startup.
func Relocate(legacyPath, canonicalPath string, c Coordinator) (bool, error) {
	if _, err := os.Stat(legacyPath); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if _, err := os.Stat(canonicalPath); err == nil {
		return false, nil
	}

	err := c.Coordinate(canonicalPath, func() error {
		if err := os.Rename(legacyPath, canonicalPath); err != nil {
			return fmt.Errorf("move database: %w", err)
		}
		for _, suffix := range companionSuffixes {
			os.Remove(legacyPath + suffix)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("relocate %s: %w", legacyPath, err)
	}
	return true, nil
}

// FallbackPath picks the path to open after a failed relocation:
// the legacy path if a file still exists there, else the canonical path
// (the install is treated as fresh). The resolver will recommend the
// canonical path again on the next launch.
func FallbackPath(canonicalPath, legacyPath string) string {
	if _, err := os.Stat(legacyPath); err == nil {
		return legacyPath
	}
	return canonicalPath
}
