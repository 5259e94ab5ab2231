package store

import (
	"context"
	"errors"
	"testing"
)

func TestSeededCatalog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	exercises, err := s.Exercises(ctx, ExerciseFilter{})
	if err != nil {
		t.Fatalf("Exercises() failed: %v", err)
	}
	if len(exercises) != 12 {
		t.Errorf("catalog has %d exercises, want 12", len(exercises))
	}

	weighted := 0
	for _, e := range exercises {
		if e.HasWeight {
			weighted++
		}
	}
	if weighted != 4 {
		t.Errorf("catalog has %d weighted exercises, want 4", weighted)
	}

	workouts, err := s.Workouts(ctx)
	if err != nil {
		t.Fatalf("Workouts() failed: %v", err)
	}
	if len(workouts) != 3 {
		t.Fatalf("catalog has %d workouts, want 3", len(workouts))
	}

	wantEntries := map[string]int{"Day A": 9, "Day B": 7, "Day C": 7}
	for _, w := range workouts {
		entries, err := s.PlanEntries(ctx, w.ID, false)
		if err != nil {
			t.Fatalf("PlanEntries(%s) failed: %v", w.Name, err)
		}
		if len(entries) != wantEntries[w.Name] {
			t.Errorf("%s has %d entries, want %d", w.Name, len(entries), wantEntries[w.Name])
		}
		for i, pe := range entries {
			if pe.Entry.Position != i+1 {
				t.Errorf("%s entry %d at position %d, want %d", w.Name, i, pe.Entry.Position, i+1)
			}
		}
	}
}

func TestSessionInsertAndLast(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if last, err := s.LastSession(ctx); err != nil || last != nil {
		t.Fatalf("LastSession on empty db = %+v, %v; want nil, nil", last, err)
	}

	started := "2026-03-01T08:00:00"
	duration := 2400
	sess, err := s.InsertSession(ctx, Session{
		Type: SessionB, Date: "2026-03-01",
		StartedAt: &started, DurationSeconds: &duration,
	})
	if err != nil {
		t.Fatalf("InsertSession() failed: %v", err)
	}
	if sess.ID == 0 {
		t.Error("inserted session has no ID")
	}

	last, err := s.LastSession(ctx)
	if err != nil {
		t.Fatalf("LastSession() failed: %v", err)
	}
	if last.Type != SessionB || last.Date != "2026-03-01" {
		t.Errorf("last session = %+v", last)
	}
	if last.StartedAt == nil || *last.StartedAt != started {
		t.Errorf("started_at = %v, want %s", last.StartedAt, started)
	}
}

func TestLastSessionByInsertionOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Backdated entry inserted last still wins: recency is insertion
	// order, not calendar order.
	if _, err := s.InsertSession(ctx, Session{Type: SessionA, Date: "2026-03-05"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertSession(ctx, Session{Type: SessionC, Date: "2026-03-01"}); err != nil {
		t.Fatal(err)
	}

	last, err := s.LastSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if last.Type != SessionC {
		t.Errorf("last session type = %s, want C", last.Type)
	}
}

func TestNextSessionTypeRotation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	next, err := s.NextSessionType(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if next != SessionA {
		t.Errorf("fresh database suggests %s, want A", next)
	}

	rotation := []struct {
		insert SessionType
		want   SessionType
	}{
		{SessionA, SessionB},
		{SessionB, SessionC},
		{SessionC, SessionA},
	}
	for i, step := range rotation {
		if _, err := s.InsertSession(ctx, Session{Type: step.insert, Date: "2026-03-01"}); err != nil {
			t.Fatal(err)
		}
		next, err := s.NextSessionType(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if next != step.want {
			t.Errorf("step %d: after %s suggests %s, want %s", i, step.insert, next, step.want)
		}
	}
}

func TestSessionsInDateRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2026-02-27", "2026-03-01", "2026-03-03", "2026-03-10"} {
		if _, err := s.InsertSession(ctx, Session{Type: SessionA, Date: date}); err != nil {
			t.Fatal(err)
		}
	}

	sessions, err := s.SessionsInDateRange(ctx, "2026-03-01", "2026-03-03")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("range returned %d sessions, want 2", len(sessions))
	}
	// Newest first, endpoints inclusive.
	if sessions[0].Date != "2026-03-03" || sessions[1].Date != "2026-03-01" {
		t.Errorf("range order: %s, %s", sessions[0].Date, sessions[1].Date)
	}
}

func TestNonPartialSessionDates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, sess := range []Session{
		{Type: SessionA, Date: "2026-03-01"},
		{Type: SessionB, Date: "2026-03-01"}, // duplicate day
		{Type: SessionC, Date: "2026-03-02", IsPartial: true},
		{Type: SessionA, Date: "2026-03-03"},
	} {
		if _, err := s.InsertSession(ctx, sess); err != nil {
			t.Fatal(err)
		}
	}

	dates, err := s.NonPartialSessionDates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 2 {
		t.Fatalf("got %d dates, want 2 (dedup + partial excluded): %v", len(dates), dates)
	}
	if dates[0].Format(DateFormat) != "2026-03-03" {
		t.Errorf("dates not newest first: %v", dates)
	}
}

func TestIncrementChallengeCapsAtThree(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	date := "2026-03-01"

	want := []int{1, 2, 3, 3}
	for i, expected := range want {
		c, err := s.IncrementChallenge(ctx, date)
		if err != nil {
			t.Fatalf("increment %d failed: %v", i+1, err)
		}
		if c.SetsCompleted != expected {
			t.Errorf("after %d increments: sets = %d, want %d", i+1, c.SetsCompleted, expected)
		}
	}

	// Still one row for the date.
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM daily_challenges WHERE date = ?`, date).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("%d rows for date, want 1", n)
	}
}

func TestCompletedChallengeQueries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for date, sets := range map[string]int{
		"2026-03-01": 3,
		"2026-03-02": 2,
		"2026-03-03": 3,
		"2026-04-01": 3,
	} {
		if _, err := s.UpsertChallenge(ctx, date, sets); err != nil {
			t.Fatal(err)
		}
	}

	dates, err := s.CompletedChallengeDates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 3 {
		t.Errorf("completed dates = %d, want 3", len(dates))
	}

	count, err := s.CompletedChallengeCount(ctx, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("completed count in March = %d, want 2", count)
	}
}

func TestResolveWorkout(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w, err := s.ResolveWorkout(ctx, "day a")
	if err != nil {
		t.Fatalf("exact match failed: %v", err)
	}
	if w.Name != "Day A" {
		t.Errorf("resolved %q, want Day A", w.Name)
	}

	w, err = s.ResolveWorkout(ctx, "B")
	if err != nil {
		t.Fatalf("substring match failed: %v", err)
	}
	if w.Name != "Day B" {
		t.Errorf("resolved %q, want Day B", w.Name)
	}

	_, err = s.ResolveWorkout(ctx, "day")
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("err = %v, want AmbiguousError", err)
	}
	if len(ambiguous.Matches) != 3 {
		t.Errorf("ambiguous matches = %v, want all three plans", ambiguous.Matches)
	}

	_, err = s.ResolveWorkout(ctx, "leg day")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestResolveExercise(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e, err := s.ResolveExercise(ctx, "plank")
	if err != nil {
		t.Fatalf("substring match failed: %v", err)
	}
	if e.Name != "Plank" {
		t.Errorf("resolved %q, want Plank", e.Name)
	}

	_, err = s.ResolveExercise(ctx, "press")
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("err = %v, want AmbiguousError for press", err)
	}

	_, err = s.ResolveExercise(ctx, "planck")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if len(notFound.Suggestions) == 0 {
		t.Error("no suggestions for a close misspelling")
	}
}

func TestExerciseFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	exercises, err := s.Exercises(ctx, ExerciseFilter{Query: "dumbbell"})
	if err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 2 {
		t.Errorf("filter 'dumbbell' returned %d, want 2", len(exercises))
	}

	// Imported entries carry muscle metadata the seed lacks.
	_, err = s.ImportExercises(ctx, []ImportedExercise{{
		Name:           "Barbell Squat",
		Equipment:      "barbell",
		PrimaryMuscles: []string{"quadriceps"},
	}})
	if err != nil {
		t.Fatal(err)
	}

	exercises, err = s.Exercises(ctx, ExerciseFilter{Muscle: "quadriceps"})
	if err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 1 || exercises[0].Name != "Barbell Squat" {
		t.Errorf("muscle filter = %+v", exercises)
	}

	exercises, err = s.Exercises(ctx, ExerciseFilter{Equipment: "barbell"})
	if err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 1 {
		t.Errorf("equipment filter returned %d, want 1", len(exercises))
	}
}

func TestInsertExerciseLogs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w, err := s.ResolveWorkout(ctx, "Day A")
	if err != nil {
		t.Fatal(err)
	}
	entries, err := s.PlanEntries(ctx, w.ID, false)
	if err != nil {
		t.Fatal(err)
	}

	sess, err := s.InsertSession(ctx, Session{Type: SessionA, Date: "2026-03-01"})
	if err != nil {
		t.Fatal(err)
	}

	weight := 14.0
	achieved := 10
	logs := []ExerciseLog{
		{WorkoutExerciseID: entries[2].Entry.ID, Weight: &weight, AchievedValue: &achieved},
		{WorkoutExerciseID: entries[3].Entry.ID, Failed: true},
	}
	if err := s.InsertExerciseLogs(ctx, sess.ID, logs); err != nil {
		t.Fatalf("InsertExerciseLogs() failed: %v", err)
	}

	var n int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM exercise_logs WHERE session_id = ?`, sess.ID).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("%d logs stored, want 2", n)
	}

	// One log per (session, entry): a duplicate aborts the batch.
	err = s.InsertExerciseLogs(ctx, sess.ID, []ExerciseLog{
		{WorkoutExerciseID: entries[2].Entry.ID},
	})
	if err == nil {
		t.Error("duplicate (session, entry) log should fail")
	}
}
