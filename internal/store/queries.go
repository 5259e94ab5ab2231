package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the calendar-date encoding used throughout the schema.
const DateFormat = "2006-01-02"

// InsertSession records a completed workout and returns the stored row.
func (s *Store) InsertSession(ctx context.Context, sess Session) (Session, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_type, date, started_at, duration_seconds, is_partial, feedback)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(sess.Type), sess.Date, sess.StartedAt, sess.DurationSeconds, sess.IsPartial, sess.Feedback)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	sess.ID = id
	return sess, nil
}

// LastSession returns the most recently inserted session, or nil when
// none exist. Insertion order, not calendar date, decides recency.
func (s *Store) LastSession(ctx context.Context) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_type, date, started_at, duration_seconds, is_partial, feedback
		FROM sessions ORDER BY id DESC LIMIT 1`)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last session: %w", err)
	}
	return &sess, nil
}

// NextSessionType returns the rotation slot to suggest for the next
// workout: the slot after the last recorded session, or A on a fresh
// database.
func (s *Store) NextSessionType(ctx context.Context) (SessionType, error) {
	last, err := s.LastSession(ctx)
	if err != nil {
		return SessionA, err
	}
	if last == nil {
		return SessionA, nil
	}
	return last.Type.Next(), nil
}

// SessionsInDateRange returns sessions with dates in [from, to]
// inclusive, newest date first.
func (s *Store) SessionsInDateRange(ctx context.Context, from, to string) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_type, date, started_at, duration_seconds, is_partial, feedback
		FROM sessions WHERE date >= ? AND date <= ? ORDER BY date DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("sessions in range: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("sessions in range: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// NonPartialSessionDates returns the distinct dates carrying at least
// one fully completed session, newest first.
func (s *Store) NonPartialSessionDates(ctx context.Context) ([]time.Time, error) {
	return s.dateColumn(ctx,
		`SELECT DISTINCT date FROM sessions WHERE is_partial = 0 ORDER BY date DESC`)
}

// ChallengeForDate returns the challenge row for a date, or nil when the
// date has no progress yet.
func (s *Store) ChallengeForDate(ctx context.Context, date string) (*DailyChallenge, error) {
	var c DailyChallenge
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, sets_completed FROM daily_challenges WHERE date = ?`, date).
		Scan(&c.ID, &c.Date, &c.SetsCompleted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("challenge for %s: %w", date, err)
	}
	return &c, nil
}

// UpsertChallenge sets the challenge progress for a date, creating the
// row if needed.
func (s *Store) UpsertChallenge(ctx context.Context, date string, setsCompleted int) (DailyChallenge, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_challenges (date, sets_completed) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET sets_completed = excluded.sets_completed`,
		date, setsCompleted)
	if err != nil {
		return DailyChallenge{}, fmt.Errorf("upsert challenge for %s: %w", date, err)
	}
	c, err := s.ChallengeForDate(ctx, date)
	if err != nil {
		return DailyChallenge{}, err
	}
	return *c, nil
}

// IncrementChallenge adds one completed set to the date's challenge,
// never exceeding MaxChallengeSets. Incrementing a finished day is a
// no-op that returns the capped row.
func (s *Store) IncrementChallenge(ctx context.Context, date string) (DailyChallenge, error) {
	current, err := s.ChallengeForDate(ctx, date)
	if err != nil {
		return DailyChallenge{}, err
	}
	sets := 1
	if current != nil {
		sets = current.SetsCompleted + 1
		if sets > MaxChallengeSets {
			sets = MaxChallengeSets
		}
	}
	return s.UpsertChallenge(ctx, date, sets)
}

// CompletedChallengeDates returns every date whose challenge reached the
// full set count, newest first.
func (s *Store) CompletedChallengeDates(ctx context.Context) ([]time.Time, error) {
	return s.dateColumn(ctx,
		`SELECT date FROM daily_challenges WHERE sets_completed = ? ORDER BY date DESC`,
		MaxChallengeSets)
}

// CompletedChallengeCount counts fully completed challenge days in
// [from, to] inclusive.
func (s *Store) CompletedChallengeCount(ctx context.Context, from, to string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM daily_challenges
		WHERE date >= ? AND date <= ? AND sets_completed = ?`,
		from, to, MaxChallengeSets).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("completed challenge count: %w", err)
	}
	return n, nil
}

// Workouts returns all plans in creation order.
func (s *Store) Workouts(ctx context.Context) ([]Workout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description FROM workouts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		var w Workout
		var desc sql.NullString
		if err := rows.Scan(&w.ID, &w.Name, &desc); err != nil {
			return nil, fmt.Errorf("list workouts: %w", err)
		}
		w.Description = nullableString(desc)
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// WorkoutByName returns the plan with the exact given name, or nil.
func (s *Store) WorkoutByName(ctx context.Context, name string) (*Workout, error) {
	workouts, err := s.Workouts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range workouts {
		if workouts[i].Name == name {
			return &workouts[i], nil
		}
	}
	return nil, nil
}

// ResolveWorkout resolves a user-supplied name fragment to exactly one
// plan: first by case-insensitive exact match, then by unique substring
// match. Multiple substring matches yield an AmbiguousError; none yields
// a NotFoundError carrying close-name suggestions.
func (s *Store) ResolveWorkout(ctx context.Context, query string) (Workout, error) {
	workouts, err := s.Workouts(ctx)
	if err != nil {
		return Workout{}, err
	}
	names := make([]string, len(workouts))
	for i, w := range workouts {
		names[i] = w.Name
	}
	idx, err := resolveName("workout", query, names)
	if err != nil {
		return Workout{}, err
	}
	return workouts[idx], nil
}

// ResolveExercise resolves a name fragment to exactly one catalog
// exercise using the same rules as ResolveWorkout.
func (s *Store) ResolveExercise(ctx context.Context, query string) (Exercise, error) {
	exercises, err := s.Exercises(ctx, ExerciseFilter{})
	if err != nil {
		return Exercise{}, err
	}
	names := make([]string, len(exercises))
	for i, e := range exercises {
		names[i] = e.Name
	}
	idx, err := resolveName("exercise", query, names)
	if err != nil {
		return Exercise{}, err
	}
	return exercises[idx], nil
}

// resolveName applies the exact-then-substring resolution rules and
// returns the index of the single match.
func resolveName(kind, query string, names []string) (int, error) {
	q := strings.ToLower(query)

	for i, name := range names {
		if strings.ToLower(name) == q {
			return i, nil
		}
	}

	var subs []int
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), q) {
			subs = append(subs, i)
		}
	}
	if len(subs) == 1 {
		return subs[0], nil
	}
	if len(subs) > 1 {
		matches := make([]string, len(subs))
		for i, idx := range subs {
			matches[i] = names[idx]
		}
		return 0, &AmbiguousError{Kind: kind, Query: query, Matches: matches}
	}

	return 0, &NotFoundError{
		Kind:        kind,
		Query:       query,
		Suggestions: closeMatches(query, names, 3, 0.4),
	}
}

// ExerciseFilter narrows the catalog listing. All fields are
// case-insensitive substring matches; zero values match everything.
type ExerciseFilter struct {
	Query     string // against name
	Muscle    string // against primary or secondary muscles
	Equipment string
}

// Exercises returns catalog entries matching the filter, ordered by
// name. An empty filter returns the whole catalog.
func (s *Store) Exercises(ctx context.Context, f ExerciseFilter) ([]Exercise, error) {
	conds := []string{"1=1"}
	var args []any
	if f.Query != "" {
		conds = append(conds, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Query)+"%")
	}
	if f.Muscle != "" {
		conds = append(conds, "(LOWER(primary_muscles) LIKE ? OR LOWER(secondary_muscles) LIKE ?)")
		pat := "%" + strings.ToLower(f.Muscle) + "%"
		args = append(args, pat, pat)
	}
	if f.Equipment != "" {
		conds = append(conds, "LOWER(equipment) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Equipment)+"%")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, instructions, tip, external_id, has_weight,
		       counter_unit, default_value, is_daily_challenge,
		       level, category, force, mechanic, equipment,
		       primary_muscles, secondary_muscles
		FROM exercises WHERE `+strings.Join(conds, " AND ")+` ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("list exercises: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// PlanEntry pairs a plan entry with its catalog exercise so callers have
// both the programming and the descriptive text.
type PlanEntry struct {
	Exercise Exercise
	Entry    WorkoutExercise
}

// PlanEntries returns a plan's entries in position order. Retired
// entries are excluded unless includeInactive is set; with it they sort
// first (parked negative positions) which callers can use to audit
// history.
func (s *Store) PlanEntries(ctx context.Context, workoutID int64, includeInactive bool) ([]PlanEntry, error) {
	activeFilter := "AND we.is_active = 1"
	if includeInactive {
		activeFilter = ""
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.name, e.description, e.instructions, e.tip,
		       we.id, we.workout_id, we.exercise_id, we.position,
		       we.counter_unit, we.counter_value, we.counter_label,
		       we.rest_seconds, we.sets, we.is_daily_challenge, we.has_weight, we.is_active
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_id = ? `+activeFilter+`
		ORDER BY we.position`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("plan entries: %w", err)
	}
	defer rows.Close()

	var entries []PlanEntry
	for rows.Next() {
		var (
			pe                        PlanEntry
			desc, instr, tip          sql.NullString
			counterUnit, counterLabel sql.NullString
			counterValue              sql.NullInt64
		)
		err := rows.Scan(
			&pe.Exercise.ID, &pe.Exercise.Name, &desc, &instr, &tip,
			&pe.Entry.ID, &pe.Entry.WorkoutID, &pe.Entry.ExerciseID, &pe.Entry.Position,
			&counterUnit, &counterValue, &counterLabel,
			&pe.Entry.RestSeconds, &pe.Entry.Sets,
			&pe.Entry.IsDailyChallenge, &pe.Entry.HasWeight, &pe.Entry.IsActive)
		if err != nil {
			return nil, fmt.Errorf("plan entries: %w", err)
		}
		pe.Exercise.Description = nullableString(desc)
		pe.Exercise.Instructions = nullableString(instr)
		pe.Exercise.Tip = nullableString(tip)
		pe.Entry.CounterUnit = nullableString(counterUnit)
		pe.Entry.CounterValue = nullableInt(counterValue)
		pe.Entry.CounterLabel = nullableString(counterLabel)
		entries = append(entries, pe)
	}
	return entries, rows.Err()
}

// InsertExerciseLogs bulk-inserts the logs for one session in a single
// transaction. Each log's SessionID is overwritten with sessionID.
func (s *Store) InsertExerciseLogs(ctx context.Context, sessionID int64, logs []ExerciseLog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert logs: %w", err)
	}
	defer tx.Rollback()

	for _, l := range logs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO exercise_logs (session_id, workout_exercise_id, weight, failed, achieved_value)
			VALUES (?, ?, ?, ?, ?)`,
			sessionID, l.WorkoutExerciseID, l.Weight, l.Failed, l.AchievedValue)
		if err != nil {
			return fmt.Errorf("insert log for entry %d: %w", l.WorkoutExerciseID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert logs: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (Session, error) {
	var (
		sess     Session
		st       string
		started  sql.NullString
		duration sql.NullInt64
		feedback sql.NullString
	)
	err := r.Scan(&sess.ID, &st, &sess.Date, &started, &duration, &sess.IsPartial, &feedback)
	if err != nil {
		return Session{}, err
	}
	sess.Type = SessionType(st)
	sess.StartedAt = nullableString(started)
	sess.DurationSeconds = nullableInt(duration)
	sess.Feedback = nullableString(feedback)
	return sess, nil
}

func scanExercise(r rowScanner) (Exercise, error) {
	var (
		e                                  Exercise
		desc, instr, tip, extID            sql.NullString
		defaultValue                       sql.NullInt64
		level, category, force, mechanic   sql.NullString
		equipment, primaries, secondaries  sql.NullString
	)
	err := r.Scan(&e.ID, &e.Name, &desc, &instr, &tip, &extID, &e.HasWeight,
		&e.CounterUnit, &defaultValue, &e.IsDailyChallenge,
		&level, &category, &force, &mechanic, &equipment,
		&primaries, &secondaries)
	if err != nil {
		return Exercise{}, err
	}
	e.Description = nullableString(desc)
	e.Instructions = nullableString(instr)
	e.Tip = nullableString(tip)
	e.ExternalID = nullableString(extID)
	e.DefaultValue = nullableInt(defaultValue)
	e.Level = nullableString(level)
	e.Category = nullableString(category)
	e.Force = nullableString(force)
	e.Mechanic = nullableString(mechanic)
	e.Equipment = nullableString(equipment)
	if e.PrimaryMuscles, err = decodeStrings(primaries); err != nil {
		return Exercise{}, fmt.Errorf("exercise %s primary muscles: %w", e.Name, err)
	}
	if e.SecondaryMuscles, err = decodeStrings(secondaries); err != nil {
		return Exercise{}, fmt.Errorf("exercise %s secondary muscles: %w", e.Name, err)
	}
	return e, nil
}

// dateColumn runs a query returning a single TEXT date column and parses
// each row. Rows that fail to parse are skipped.
func (s *Store) dateColumn(ctx context.Context, query string, args ...any) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		if d, err := time.Parse(DateFormat, raw); err == nil {
			dates = append(dates, d)
		}
	}
	return dates, rows.Err()
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func decodeStrings(v sql.NullString) ([]string, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	var ss []string
	if err := json.Unmarshal([]byte(v.String), &ss); err != nil {
		return nil, err
	}
	return ss, nil
}
