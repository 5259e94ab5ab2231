// Package store owns the SQLite database: opening it at the canonical
// location, evolving its schema through versioned migrations, and every
// read and write the application performs against it.
//
// The database runs with a DELETE journal so the file on disk is always
// self-contained; a sync agent that replicates the single file never
// strands write-ahead companions. One store handle exists per process
// and all access is serialized through a single connection, so no two
// writes can interleave against the file.
//
// Startup order (the caller wires this, nothing here is global):
//  1. locate.Resolve picks the canonical path
//  2. locate.Relocate moves a legacy file there, once
//  3. Open opens the file under a coordination claim and applies any
//     pending migrations before returning
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/avanian/gymtrack/internal/locate"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store wraps the database connection. The caller MUST call Close when
// done.
type Store struct {
	db   *sql.DB
	path string
}

// Options configures Open. The zero value opens without coordination and
// logs to a discarded logger.
type Options struct {
	// Coordinator serializes the open (and the migration run inside it)
	// against an external sync agent writing the same path. Nil opens
	// without a claim.
	Coordinator locate.Coordinator

	// Logger receives migration progress. Nil silences it.
	Logger *log.Logger
}

// Open opens (creating if necessary) the database at path and applies
// every pending migration before returning. The whole operation runs
// under the coordination claim when one is configured: no query may run
// concurrently with migration, and a concurrent sync write blocks the
// open rather than racing it.
//
// A migration failure aborts the open; the file is left at the last
// fully-ledgered state.
func Open(path string, opts Options) (*Store, error) {
	return OpenContext(context.Background(), path, opts)
}

// OpenContext opens the store with context support.
func OpenContext(ctx context.Context, path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	var s *Store
	open := func() error {
		var err error
		s, err = openAndMigrate(ctx, path, opts.Logger)
		return err
	}

	if opts.Coordinator != nil {
		if err := opts.Coordinator.Coordinate(path, open); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := open(); err != nil {
		return nil, err
	}
	return s, nil
}

func openAndMigrate(ctx context.Context, path string, logger *log.Logger) (*Store, error) {
	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection: one logical writer queue for the whole process.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// DELETE journal keeps the file self-contained for sync relocation.
	for _, pragma := range []string{
		"PRAGMA journal_mode=DELETE",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &Store{db: conn, path: path}
	if err := Migrations().Apply(ctx, conn, logger); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the file path the store was opened at.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	s.db = nil
	return nil
}
