package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// Migration is one named schema step. Up runs inside a transaction that
// also records the step in the ledger; if Up fails the transaction rolls
// back and the ledger stays untouched.
type Migration struct {
	Name string
	Up   func(ctx context.Context, tx *sql.Tx) error
}

// Migrator applies an ordered sequence of migrations exactly once each,
// tracked in the schema_migrations ledger table.
type Migrator struct {
	steps []Migration
}

// Register appends a migration to the sequence. Order of registration is
// order of application.
func (m *Migrator) Register(steps ...Migration) {
	m.steps = append(m.steps, steps...)
}

// Apply runs every registered migration whose name is not yet in the
// ledger, in registration order. Each step runs in its own transaction
// together with its ledger insert, so a crash between steps leaves a
// database that is exactly "migrated through step N". Applying the same
// sequence to an up-to-date database is a no-op.
func (m *Migrator) Apply(ctx context.Context, db *sql.DB, logger *log.Logger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`); err != nil {
		return fmt.Errorf("create migration ledger: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("read migration ledger: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("scan migration ledger: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("read migration ledger: %w", err)
	}
	rows.Close()

	for _, step := range m.steps {
		if applied[step.Name] {
			continue
		}
		if err := m.applyOne(ctx, db, step); err != nil {
			return fmt.Errorf("migration %s: %w", step.Name, err)
		}
		if logger != nil {
			logger.Printf("applied migration %s", step.Name)
		}
	}
	return nil
}

func (m *Migrator) applyOne(ctx context.Context, db *sql.DB, step Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := step.Up(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (name) VALUES (?)`, step.Name); err != nil {
		return fmt.Errorf("record in ledger: %w", err)
	}
	return tx.Commit()
}

// tableExists reports whether a table of the given name exists.
func tableExists(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
		name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("probe table %s: %w", name, err)
	}
	return n > 0, nil
}

// columnExists reports whether the table already has the given column.
// Additive column migrations probe before ALTER so a step interrupted
// after a partial DDL run can be retried safely.
func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, fmt.Errorf("probe columns of %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("scan columns of %s: %w", table, err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// addColumnIfMissing issues ALTER TABLE ADD COLUMN only when the column
// is not already present.
func addColumnIfMissing(ctx context.Context, tx *sql.Tx, table, column, def string) error {
	exists, err := columnExists(ctx, tx, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, def))
	if err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return nil
}
