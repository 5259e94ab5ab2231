package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avanian/gymtrack/internal/seed"
)

// Migrations returns the full schema sequence. Names are permanent: they
// key the ledger, so renaming one would replay it against existing
// databases.
func Migrations() *Migrator {
	m := &Migrator{}
	m.Register(
		Migration{Name: "001_sessions_and_challenges", Up: migrateSessions},
		Migration{Name: "002_exercise_catalog", Up: migrateCatalog},
		Migration{Name: "003_weights_and_logs", Up: migrateWeightsAndLogs},
		Migration{Name: "004_denormalize_plan_entries", Up: migrateDenormalizeEntries},
		Migration{Name: "005_exercise_classification", Up: migrateClassification},
		Migration{Name: "006_exercise_tips", Up: migrateTips},
		Migration{Name: "007_plan_entry_active_flag", Up: migrateActiveFlag},
	)
	return m
}

func migrateSessions(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_type TEXT NOT NULL,
			date TEXT NOT NULL,
			started_at TEXT,
			duration_seconds INTEGER,
			is_partial INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS daily_challenges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL UNIQUE,
			sets_completed INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("create session tables: %w", err)
	}
	return nil
}

// migrateCatalog creates the exercise catalog and the workout plan
// tables, then provisions them from the bundled seed data. The catalog's
// per-exercise defaults (counter unit, default value, challenge flag)
// come from the first plan entry that references each exercise.
func migrateCatalog(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS exercises (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			counter_unit TEXT NOT NULL,
			default_value INTEGER,
			is_daily_challenge INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS workouts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT
		);
		CREATE TABLE IF NOT EXISTS workout_exercises (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			workout_id INTEGER NOT NULL REFERENCES workouts(id),
			exercise_id INTEGER NOT NULL REFERENCES exercises(id),
			position INTEGER NOT NULL,
			counter_value INTEGER,
			counter_label TEXT,
			rest_seconds INTEGER NOT NULL DEFAULT 0,
			sets INTEGER NOT NULL DEFAULT 1,
			UNIQUE(workout_id, position)
		);
	`)
	if err != nil {
		return fmt.Errorf("create catalog tables: %w", err)
	}

	exercises, err := seed.Exercises()
	if err != nil {
		return err
	}
	workouts, err := seed.Workouts()
	if err != nil {
		return err
	}

	// First plan entry referencing each exercise decides its catalog
	// defaults.
	type defaults struct {
		unit      string
		value     *int
		challenge bool
	}
	firstUse := make(map[string]defaults)
	for _, w := range workouts {
		for _, e := range w.Exercises {
			if _, ok := firstUse[e.Exercise]; !ok {
				firstUse[e.Exercise] = defaults{unit: e.Unit, value: e.Value, challenge: e.Challenge}
			}
		}
	}

	ids := make(map[string]int64, len(exercises))
	for _, ex := range exercises {
		d, ok := firstUse[ex.Name]
		if !ok {
			return fmt.Errorf("seed exercise %q is not referenced by any plan", ex.Name)
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO exercises (name, description, counter_unit, default_value, is_daily_challenge)
			VALUES (?, ?, ?, ?, ?)`,
			ex.Name, nullString(ex.Tip), d.unit, nullIntPtr(d.value), d.challenge)
		if err != nil {
			return fmt.Errorf("seed exercise %q: %w", ex.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("seed exercise %q: %w", ex.Name, err)
		}
		ids[ex.Name] = id
	}

	for _, w := range workouts {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO workouts (name, description) VALUES (?, ?)`,
			w.Name, nullString(w.Description))
		if err != nil {
			return fmt.Errorf("seed workout %q: %w", w.Name, err)
		}
		workoutID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("seed workout %q: %w", w.Name, err)
		}
		for i, e := range w.Exercises {
			exerciseID, ok := ids[e.Exercise]
			if !ok {
				return fmt.Errorf("workout %q references unknown exercise %q", w.Name, e.Exercise)
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO workout_exercises
					(workout_id, exercise_id, position, counter_value, counter_label, rest_seconds, sets)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				workoutID, exerciseID, i+1, nullIntPtr(e.Value), nullString(e.Label), e.Rest, e.Sets)
			if err != nil {
				return fmt.Errorf("seed workout %q entry %d: %w", w.Name, i+1, err)
			}
		}
	}
	return nil
}

// weightedSeedExercises are the built-in exercises that take a dumbbell.
// The list is frozen here rather than read from the seed bundle because
// this step must produce the same result no matter what the bundle says
// in later releases.
var weightedSeedExercises = []string{
	"Dumbbell rows (pull)",
	"Dumbbell chest press (push)",
	"Shoulder press (push)",
	"Bicep curls (pull)",
}

func migrateWeightsAndLogs(ctx context.Context, tx *sql.Tx) error {
	if err := addColumnIfMissing(ctx, tx, "exercises", "has_weight", "INTEGER NOT NULL DEFAULT 0"); err != nil {
		return err
	}
	if err := addColumnIfMissing(ctx, tx, "sessions", "feedback", "TEXT"); err != nil {
		return err
	}

	placeholders := strings.Repeat("?,", len(weightedSeedExercises))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(weightedSeedExercises))
	for i, name := range weightedSeedExercises {
		args[i] = name
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE exercises SET has_weight = 1 WHERE name IN (`+placeholders+`)`,
		args...); err != nil {
		return fmt.Errorf("mark weighted exercises: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS exercise_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL REFERENCES sessions(id),
			workout_exercise_id INTEGER NOT NULL REFERENCES workout_exercises(id),
			weight REAL,
			failed INTEGER NOT NULL DEFAULT 0,
			achieved_value INTEGER,
			UNIQUE(session_id, workout_exercise_id)
		)`); err != nil {
		return fmt.Errorf("create exercise_logs: %w", err)
	}
	return nil
}

// migrateDenormalizeEntries copies per-exercise display fields onto each
// plan entry so an entry can diverge from its catalog exercise after a
// swap, and backfills entries that inherited their target count from the
// catalog default.
func migrateDenormalizeEntries(ctx context.Context, tx *sql.Tx) error {
	if err := addColumnIfMissing(ctx, tx, "workout_exercises", "counter_unit", "TEXT"); err != nil {
		return err
	}
	if err := addColumnIfMissing(ctx, tx, "workout_exercises", "is_daily_challenge", "INTEGER NOT NULL DEFAULT 0"); err != nil {
		return err
	}
	if err := addColumnIfMissing(ctx, tx, "workout_exercises", "has_weight", "INTEGER NOT NULL DEFAULT 0"); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE workout_exercises SET
			counter_unit = (SELECT counter_unit FROM exercises WHERE exercises.id = workout_exercises.exercise_id),
			is_daily_challenge = (SELECT is_daily_challenge FROM exercises WHERE exercises.id = workout_exercises.exercise_id),
			has_weight = (SELECT has_weight FROM exercises WHERE exercises.id = workout_exercises.exercise_id)
	`); err != nil {
		return fmt.Errorf("denormalize plan entries: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE workout_exercises SET
			counter_value = (SELECT default_value FROM exercises WHERE exercises.id = workout_exercises.exercise_id)
		WHERE counter_value IS NULL
	`); err != nil {
		return fmt.Errorf("backfill counter values: %w", err)
	}
	return nil
}

func migrateClassification(ctx context.Context, tx *sql.Tx) error {
	for _, col := range []string{
		"level", "category", "force", "mechanic", "equipment",
		"primary_muscles", "secondary_muscles", "external_id", "instructions",
	} {
		if err := addColumnIfMissing(ctx, tx, "exercises", col, "TEXT"); err != nil {
			return err
		}
	}
	// Seed descriptions predate the instructions column; promote them so
	// imported and built-in exercises read from the same field.
	if _, err := tx.ExecContext(ctx,
		`UPDATE exercises SET instructions = description WHERE instructions IS NULL`); err != nil {
		return fmt.Errorf("promote descriptions: %w", err)
	}
	return nil
}

func migrateTips(ctx context.Context, tx *sql.Tx) error {
	if err := addColumnIfMissing(ctx, tx, "exercises", "tip", "TEXT"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE exercises SET tip = instructions WHERE tip IS NULL`); err != nil {
		return fmt.Errorf("backfill tips: %w", err)
	}
	return nil
}

func migrateActiveFlag(ctx context.Context, tx *sql.Tx) error {
	return addColumnIfMissing(ctx, tx, "workout_exercises", "is_active", "INTEGER NOT NULL DEFAULT 1")
}

// nullString maps the empty string to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullIntPtr maps a nil pointer to SQL NULL.
func nullIntPtr(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// jsonStrings encodes a string slice as a JSON array for TEXT storage,
// mapping an empty slice to NULL.
func jsonStrings(ss []string) (any, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return nil, fmt.Errorf("encode string list: %w", err)
	}
	return string(b), nil
}
