package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avanian/gymtrack/internal/streak"
)

// WeightPoint is one date's best weight for an exercise.
type WeightPoint struct {
	Date   string
	Weight float64
}

// WeightHistory returns the maximum logged weight per date for an
// exercise, oldest first. Zero and missing weights are excluded.
func (s *Store) WeightHistory(ctx context.Context, exerciseID int64) ([]WeightPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.date, MAX(el.weight)
		FROM exercise_logs el
		JOIN sessions s ON s.id = el.session_id
		JOIN workout_exercises we ON we.id = el.workout_exercise_id
		WHERE we.exercise_id = ? AND el.weight > 0
		GROUP BY s.date
		ORDER BY s.date ASC`, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("weight history: %w", err)
	}
	defer rows.Close()

	var points []WeightPoint
	for rows.Next() {
		var p WeightPoint
		if err := rows.Scan(&p.Date, &p.Weight); err != nil {
			return nil, fmt.Errorf("weight history: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// ExercisesWithWeightLogs returns the catalog entries that have at least
// one positive weight log, ordered by name.
func (s *Store) ExercisesWithWeightLogs(ctx context.Context) ([]Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, instructions, tip, external_id, has_weight,
		       counter_unit, default_value, is_daily_challenge,
		       level, category, force, mechanic, equipment,
		       primary_muscles, secondary_muscles
		FROM exercises
		WHERE id IN (
			SELECT DISTINCT we.exercise_id
			FROM workout_exercises we
			JOIN exercise_logs el ON el.workout_exercise_id = we.id
			WHERE el.weight > 0
		)
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("exercises with weight logs: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("exercises with weight logs: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// Granularity selects the bucket size for session aggregation.
type Granularity int

const (
	Weekly Granularity = iota
	Monthly
)

// SessionCountBucket is one time bucket of the session aggregation.
// DominantType is the rotation slot occurring most often in the bucket;
// on a tie the alphabetically first slot wins.
type SessionCountBucket struct {
	Key          string // 2024-W05 or 2024-02
	Count        int
	DominantType SessionType
}

// SessionCountsByPeriod groups non-partial sessions into ISO-week or
// calendar-month buckets, in first-seen chronological order.
func (s *Store) SessionCountsByPeriod(ctx context.Context, g Granularity) ([]SessionCountBucket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, session_type FROM sessions
		WHERE is_partial = 0 ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("session counts: %w", err)
	}
	defer rows.Close()

	var keys []string
	counts := make(map[string]int)
	typeCounts := make(map[string]map[SessionType]int)

	for rows.Next() {
		var date, st string
		if err := rows.Scan(&date, &st); err != nil {
			return nil, fmt.Errorf("session counts: %w", err)
		}
		d, err := time.Parse(DateFormat, date)
		if err != nil {
			continue
		}
		key := bucketKey(d, g)
		if _, seen := counts[key]; !seen {
			keys = append(keys, key)
			typeCounts[key] = make(map[SessionType]int)
		}
		counts[key]++
		typeCounts[key][SessionType(st)]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session counts: %w", err)
	}

	buckets := make([]SessionCountBucket, len(keys))
	for i, key := range keys {
		buckets[i] = SessionCountBucket{
			Key:          key,
			Count:        counts[key],
			DominantType: dominantType(typeCounts[key]),
		}
	}
	return buckets, nil
}

func bucketKey(d time.Time, g Granularity) string {
	if g == Weekly {
		year, week := d.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	}
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}

func dominantType(counts map[SessionType]int) SessionType {
	var best SessionType
	bestCount := -1
	for _, t := range []SessionType{SessionA, SessionB, SessionC} {
		if counts[t] > bestCount {
			best = t
			bestCount = counts[t]
		}
	}
	// Slots outside the rotation still count if nothing else occurs.
	for t, n := range counts {
		if n > bestCount {
			best = t
			bestCount = n
		}
	}
	return best
}

// HeaviestLift is the single heaviest weight ever logged and the
// exercise it belongs to.
type HeaviestLift struct {
	Exercise string
	Weight   float64
}

// PersonalBests aggregates the all-time records.
type PersonalBests struct {
	HeaviestLift           *HeaviestLift // nil when no weight was ever logged
	LongestSessionStreak   int
	LongestChallengeStreak int
	MostSessionsInWeek     int
}

// PersonalBests computes the all-time bests from session, challenge and
// log data.
func (s *Store) PersonalBests(ctx context.Context) (PersonalBests, error) {
	var bests PersonalBests

	var name string
	var weight float64
	err := s.db.QueryRowContext(ctx, `
		SELECT e.name, MAX(el.weight)
		FROM exercise_logs el
		JOIN workout_exercises we ON we.id = el.workout_exercise_id
		JOIN exercises e ON e.id = we.exercise_id
		WHERE el.weight > 0
		GROUP BY we.exercise_id
		ORDER BY MAX(el.weight) DESC
		LIMIT 1`).Scan(&name, &weight)
	switch err {
	case nil:
		bests.HeaviestLift = &HeaviestLift{Exercise: name, Weight: weight}
	case sql.ErrNoRows:
	default:
		return PersonalBests{}, fmt.Errorf("heaviest lift: %w", err)
	}

	sessionDates, err := s.NonPartialSessionDates(ctx)
	if err != nil {
		return PersonalBests{}, err
	}
	bests.LongestSessionStreak = streak.Longest(sessionDates)

	challengeDates, err := s.CompletedChallengeDates(ctx)
	if err != nil {
		return PersonalBests{}, err
	}
	bests.LongestChallengeStreak = streak.Longest(challengeDates)

	weekly, err := s.SessionCountsByPeriod(ctx, Weekly)
	if err != nil {
		return PersonalBests{}, err
	}
	for _, b := range weekly {
		if b.Count > bests.MostSessionsInWeek {
			bests.MostSessionsInWeek = b.Count
		}
	}
	return bests, nil
}

// ChallengeHistory returns every date of the year with challenge
// progress, keyed by date string. Dates with zero progress are absent.
func (s *Store) ChallengeHistory(ctx context.Context, year int) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, sets_completed FROM daily_challenges
		WHERE date >= ? AND date <= ? AND sets_completed > 0`,
		fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	if err != nil {
		return nil, fmt.Errorf("challenge history: %w", err)
	}
	defer rows.Close()

	history := make(map[string]int)
	for rows.Next() {
		var date string
		var sets int
		if err := rows.Scan(&date, &sets); err != nil {
			return nil, fmt.Errorf("challenge history: %w", err)
		}
		history[date] = sets
	}
	return history, rows.Err()
}

// LastWeights returns the most recent logged weight for each active
// entry of the plan, keyed by entry ID. Lookup crosses plans: an entry
// inherits the weight from any plan entry sharing its catalog exercise,
// so progress on Day A carries over to the same lift on Day C.
func (s *Store) LastWeights(ctx context.Context, workoutID int64) (map[int64]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cur.id, el.weight
		FROM workout_exercises cur
		JOIN workout_exercises any_we ON any_we.exercise_id = cur.exercise_id
		JOIN exercise_logs el ON el.workout_exercise_id = any_we.id
		JOIN sessions s ON s.id = el.session_id
		WHERE cur.workout_id = ?
		  AND cur.is_active = 1
		  AND el.weight IS NOT NULL
		ORDER BY s.id DESC`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("last weights: %w", err)
	}
	defer rows.Close()

	weights := make(map[int64]float64)
	for rows.Next() {
		var id int64
		var w float64
		if err := rows.Scan(&id, &w); err != nil {
			return nil, fmt.Errorf("last weights: %w", err)
		}
		// First row per entry is the most recent session.
		if _, ok := weights[id]; !ok {
			weights[id] = w
		}
	}
	return weights, rows.Err()
}
