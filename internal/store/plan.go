package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SwapOptions override programming fields when swapping an exercise.
// Nil fields inherit from the entry being replaced.
type SwapOptions struct {
	Sets        *int
	CounterValue *int
	RestSeconds *int
}

// SwapExercise replaces oldEx with newEx at the same position in the
// plan. The old entry is retired rather than deleted: it keeps its row
// for log history, flagged inactive with its position parked at -id so
// the position uniqueness constraint stays free for the replacement.
func (s *Store) SwapExercise(ctx context.Context, workout Workout, oldEx, newEx Exercise, opts SwapOptions) (WorkoutExercise, error) {
	old, err := s.activeEntry(ctx, workout, oldEx)
	if err != nil {
		return WorkoutExercise{}, err
	}

	sets := old.Sets
	if opts.Sets != nil {
		sets = *opts.Sets
	}
	counterValue := old.CounterValue
	if opts.CounterValue != nil {
		counterValue = opts.CounterValue
	}
	rest := old.RestSeconds
	if opts.RestSeconds != nil {
		rest = *opts.RestSeconds
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WorkoutExercise{}, fmt.Errorf("swap exercise: %w", err)
	}
	defer tx.Rollback()

	if err := retireEntry(ctx, tx, old.ID); err != nil {
		return WorkoutExercise{}, fmt.Errorf("swap exercise: %w", err)
	}

	entry := WorkoutExercise{
		WorkoutID:        workout.ID,
		ExerciseID:       newEx.ID,
		Position:         old.Position,
		CounterUnit:      old.CounterUnit,
		CounterValue:     counterValue,
		CounterLabel:     old.CounterLabel,
		RestSeconds:      rest,
		Sets:             sets,
		IsDailyChallenge: old.IsDailyChallenge,
		HasWeight:        newEx.HasWeight,
		IsActive:         true,
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO workout_exercises
			(workout_id, exercise_id, position, counter_unit, counter_value,
			 counter_label, rest_seconds, sets, is_daily_challenge, has_weight, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		entry.WorkoutID, entry.ExerciseID, entry.Position,
		entry.CounterUnit, entry.CounterValue, entry.CounterLabel,
		entry.RestSeconds, entry.Sets, entry.IsDailyChallenge, entry.HasWeight)
	if err != nil {
		return WorkoutExercise{}, fmt.Errorf("swap exercise: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return WorkoutExercise{}, fmt.Errorf("swap exercise: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return WorkoutExercise{}, fmt.Errorf("swap exercise: %w", err)
	}
	return entry, nil
}

// AddOptions configure AddExercise. Nil fields take the plan defaults:
// appended at the end, 3 sets, 10 reps (60 seconds when timed), 30
// seconds rest, weight flag from the catalog exercise.
type AddOptions struct {
	Position     *int
	Sets         *int
	CounterValue *int
	RestSeconds  *int
	Timed        bool
	Weighted     bool
}

// AddExercise inserts a new entry into the plan. Inserting before the
// end shifts later entries down one position.
func (s *Store) AddExercise(ctx context.Context, workout Workout, ex Exercise, opts AddOptions) (WorkoutExercise, error) {
	maxPos, err := s.maxActivePosition(ctx, workout.ID)
	if err != nil {
		return WorkoutExercise{}, err
	}

	position := maxPos + 1
	if opts.Position != nil {
		position = *opts.Position
		if position < 1 || position > maxPos+1 {
			return WorkoutExercise{}, fmt.Errorf("position must be between 1 and %d", maxPos+1)
		}
	}

	sets := 3
	if opts.Sets != nil {
		sets = *opts.Sets
	}
	unit := "reps"
	value := 10
	if opts.Timed {
		unit = "timer"
		value = 60
	}
	if opts.CounterValue != nil {
		value = *opts.CounterValue
	}
	rest := 30
	if opts.RestSeconds != nil {
		rest = *opts.RestSeconds
	}
	hasWeight := ex.HasWeight
	if opts.Weighted {
		hasWeight = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WorkoutExercise{}, fmt.Errorf("add exercise: %w", err)
	}
	defer tx.Rollback()

	if position <= maxPos {
		if err := shiftPositions(ctx, tx, workout.ID, position, maxPos, +1); err != nil {
			return WorkoutExercise{}, fmt.Errorf("add exercise: %w", err)
		}
	}

	entry := WorkoutExercise{
		WorkoutID:    workout.ID,
		ExerciseID:   ex.ID,
		Position:     position,
		CounterUnit:  &unit,
		CounterValue: &value,
		RestSeconds:  rest,
		Sets:         sets,
		HasWeight:    hasWeight,
		IsActive:     true,
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO workout_exercises
			(workout_id, exercise_id, position, counter_unit, counter_value,
			 counter_label, rest_seconds, sets, is_daily_challenge, has_weight, is_active)
		VALUES (?, ?, ?, ?, ?, NULL, ?, ?, 0, ?, 1)`,
		entry.WorkoutID, entry.ExerciseID, entry.Position,
		unit, value, rest, sets, hasWeight)
	if err != nil {
		return WorkoutExercise{}, fmt.Errorf("add exercise: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return WorkoutExercise{}, fmt.Errorf("add exercise: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return WorkoutExercise{}, fmt.Errorf("add exercise: %w", err)
	}
	return entry, nil
}

// RemoveExercise retires the plan entry for ex and closes the position
// gap it leaves behind.
func (s *Store) RemoveExercise(ctx context.Context, workout Workout, ex Exercise) error {
	entry, err := s.activeEntry(ctx, workout, ex)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("remove exercise: %w", err)
	}
	defer tx.Rollback()

	if err := retireEntry(ctx, tx, entry.ID); err != nil {
		return fmt.Errorf("remove exercise: %w", err)
	}
	maxPos, err := maxActivePositionTx(ctx, tx, workout.ID)
	if err != nil {
		return fmt.Errorf("remove exercise: %w", err)
	}
	if err := shiftPositions(ctx, tx, workout.ID, entry.Position+1, maxPos, -1); err != nil {
		return fmt.Errorf("remove exercise: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("remove exercise: %w", err)
	}
	return nil
}

// ReorderExercise moves the active entry at fromPos to toPos, shifting
// the entries between them. Positions end up renumbered 1..n.
func (s *Store) ReorderExercise(ctx context.Context, workout Workout, fromPos, toPos int) error {
	entries, err := s.PlanEntries(ctx, workout.ID, false)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("workout %q has no active exercises", workout.Name)
	}

	fromIdx, toIdx := -1, -1
	maxPos := 0
	for i, pe := range entries {
		if pe.Entry.Position == fromPos {
			fromIdx = i
		}
		if pe.Entry.Position == toPos {
			toIdx = i
		}
		if pe.Entry.Position > maxPos {
			maxPos = pe.Entry.Position
		}
	}
	if fromIdx == -1 {
		return fmt.Errorf("no active exercise at position %d", fromPos)
	}
	if toPos < 1 || toPos > maxPos {
		return fmt.Errorf("target position must be between 1 and %d", maxPos)
	}
	if fromPos == toPos {
		return fmt.Errorf("source and target positions are the same")
	}

	// Reorder in memory, then renumber in two phases: the position
	// column is unique per workout, so rows first move to a parked
	// range above every live position before taking final values.
	ordered := make([]PlanEntry, len(entries))
	copy(ordered, entries)
	moved := ordered[fromIdx]
	ordered = append(ordered[:fromIdx], ordered[fromIdx+1:]...)
	ordered = append(ordered[:toIdx], append([]PlanEntry{moved}, ordered[toIdx:]...)...)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reorder exercise: %w", err)
	}
	defer tx.Rollback()

	offset := maxPos + 100
	for i, pe := range ordered {
		if _, err := tx.ExecContext(ctx,
			`UPDATE workout_exercises SET position = ? WHERE id = ?`,
			offset+i, pe.Entry.ID); err != nil {
			return fmt.Errorf("reorder exercise: %w", err)
		}
	}
	for i, pe := range ordered {
		if _, err := tx.ExecContext(ctx,
			`UPDATE workout_exercises SET position = ? WHERE id = ?`,
			i+1, pe.Entry.ID); err != nil {
			return fmt.Errorf("reorder exercise: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reorder exercise: %w", err)
	}
	return nil
}

// ImportedExercise is one entry of an external catalog file, in the
// free-exercise-db JSON shape.
type ImportedExercise struct {
	ExternalID       string   `json:"id"`
	Name             string   `json:"name"`
	Tip              string   `json:"tip"`
	HasWeight        bool     `json:"hasWeight"`
	Level            string   `json:"level"`
	Category         string   `json:"category"`
	Force            string   `json:"force"`
	Mechanic         string   `json:"mechanic"`
	Equipment        string   `json:"equipment"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
}

// ImportResult reports which entries an import inserted and which it
// skipped as already present.
type ImportResult struct {
	Imported []string
	Skipped  []string
}

// ImportExercises adds external catalog entries, skipping any whose name
// already exists (case-insensitive). All inserts run in one transaction;
// a failure imports nothing.
func (s *Store) ImportExercises(ctx context.Context, entries []ImportedExercise) (ImportResult, error) {
	existing, err := s.Exercises(ctx, ExerciseFilter{})
	if err != nil {
		return ImportResult{}, err
	}
	names := make(map[string]bool, len(existing))
	for _, e := range existing {
		names[strings.ToLower(e.Name)] = true
	}

	var result ImportResult
	var toImport []ImportedExercise
	for _, e := range entries {
		if names[strings.ToLower(e.Name)] {
			result.Skipped = append(result.Skipped, e.Name)
			continue
		}
		toImport = append(toImport, e)
	}
	if len(toImport) == 0 {
		return result, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import exercises: %w", err)
	}
	defer tx.Rollback()

	for _, e := range toImport {
		primary, err := jsonStrings(e.PrimaryMuscles)
		if err != nil {
			return ImportResult{}, fmt.Errorf("import %q: %w", e.Name, err)
		}
		secondary, err := jsonStrings(e.SecondaryMuscles)
		if err != nil {
			return ImportResult{}, fmt.Errorf("import %q: %w", e.Name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO exercises
				(name, description, instructions, tip, external_id, has_weight,
				 level, category, force, mechanic, equipment,
				 primary_muscles, secondary_muscles, counter_unit, default_value, is_daily_challenge)
			VALUES (?, '', '', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'reps', 10, 0)`,
			e.Name, e.Tip, nullString(e.ExternalID), e.HasWeight,
			nullString(e.Level), nullString(e.Category), nullString(e.Force),
			nullString(e.Mechanic), nullString(e.Equipment), primary, secondary)
		if err != nil {
			return ImportResult{}, fmt.Errorf("import %q: %w", e.Name, err)
		}
		result.Imported = append(result.Imported, e.Name)
	}
	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("import exercises: %w", err)
	}
	return result, nil
}

// activeEntry returns the active plan entry for the exercise, or an
// error naming both when none exists.
func (s *Store) activeEntry(ctx context.Context, workout Workout, ex Exercise) (WorkoutExercise, error) {
	var (
		we                        WorkoutExercise
		counterUnit, counterLabel sql.NullString
		counterValue              sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, workout_id, exercise_id, position, counter_unit, counter_value,
		       counter_label, rest_seconds, sets, is_daily_challenge, has_weight, is_active
		FROM workout_exercises
		WHERE workout_id = ? AND exercise_id = ? AND is_active = 1`,
		workout.ID, ex.ID).Scan(
		&we.ID, &we.WorkoutID, &we.ExerciseID, &we.Position,
		&counterUnit, &counterValue, &counterLabel,
		&we.RestSeconds, &we.Sets, &we.IsDailyChallenge, &we.HasWeight, &we.IsActive)
	if err == sql.ErrNoRows {
		return WorkoutExercise{}, fmt.Errorf("%q is not an active exercise in %q", ex.Name, workout.Name)
	}
	if err != nil {
		return WorkoutExercise{}, fmt.Errorf("find plan entry: %w", err)
	}
	we.CounterUnit = nullableString(counterUnit)
	we.CounterValue = nullableInt(counterValue)
	we.CounterLabel = nullableString(counterLabel)
	return we, nil
}

func (s *Store) maxActivePosition(ctx context.Context, workoutID int64) (int, error) {
	var pos sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(position) FROM workout_exercises WHERE workout_id = ? AND is_active = 1`,
		workoutID).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("max position: %w", err)
	}
	return int(pos.Int64), nil
}

func maxActivePositionTx(ctx context.Context, tx *sql.Tx, workoutID int64) (int, error) {
	var pos sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT MAX(position) FROM workout_exercises WHERE workout_id = ? AND is_active = 1`,
		workoutID).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("max position: %w", err)
	}
	return int(pos.Int64), nil
}

// retireEntry flags the entry inactive and parks its position at -id,
// freeing the (workout, position) uniqueness slot while keeping the row
// for log history.
func retireEntry(ctx context.Context, tx *sql.Tx, entryID int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE workout_exercises SET is_active = 0, position = -id WHERE id = ?`, entryID)
	return err
}

// shiftPositions moves every active position in [from, to] by delta,
// in two phases through a parked range so the uniqueness constraint
// never trips mid-update.
func shiftPositions(ctx context.Context, tx *sql.Tx, workoutID int64, from, to, delta int) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, position FROM workout_exercises
		WHERE workout_id = ? AND is_active = 1 AND position >= ? AND position <= ?
		ORDER BY position`, workoutID, from, to)
	if err != nil {
		return err
	}
	type row struct {
		id  int64
		pos int
	}
	var affected []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.pos); err != nil {
			rows.Close()
			return err
		}
		affected = append(affected, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	offset := to + 100
	for _, r := range affected {
		if _, err := tx.ExecContext(ctx,
			`UPDATE workout_exercises SET position = ? WHERE id = ?`,
			offset+r.pos, r.id); err != nil {
			return err
		}
	}
	for _, r := range affected {
		if _, err := tx.ExecContext(ctx,
			`UPDATE workout_exercises SET position = ? WHERE id = ?`,
			r.pos+delta, r.id); err != nil {
			return err
		}
	}
	return nil
}
