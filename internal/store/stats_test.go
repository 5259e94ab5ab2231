package store

import (
	"context"
	"testing"
)

// logWeight records one session on date with a single weighted log
// against the given plan entry.
func logWeight(t *testing.T, s *Store, st SessionType, date string, entryID int64, weight float64) Session {
	t.Helper()
	ctx := context.Background()
	sess, err := s.InsertSession(ctx, Session{Type: st, Date: date})
	if err != nil {
		t.Fatal(err)
	}
	err = s.InsertExerciseLogs(ctx, sess.ID, []ExerciseLog{
		{WorkoutExerciseID: entryID, Weight: &weight},
	})
	if err != nil {
		t.Fatal(err)
	}
	return sess
}

func entryFor(t *testing.T, s *Store, workout, exercise string) (Workout, WorkoutExercise) {
	t.Helper()
	ctx := context.Background()
	w, err := s.ResolveWorkout(ctx, workout)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := s.PlanEntries(ctx, w.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, pe := range entries {
		if pe.Exercise.Name == exercise {
			return w, pe.Entry
		}
	}
	t.Fatalf("%s not in %s", exercise, workout)
	return Workout{}, WorkoutExercise{}
}

func TestWeightHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, rowsA := entryFor(t, s, "Day A", "Dumbbell rows (pull)")

	logWeight(t, s, SessionA, "2026-03-01", rowsA.ID, 12)
	logWeight(t, s, SessionA, "2026-03-01", rowsA.ID, 14) // same date, heavier
	logWeight(t, s, SessionA, "2026-03-05", rowsA.ID, 13)

	history, err := s.WeightHistory(ctx, rowsA.ExerciseID)
	if err != nil {
		t.Fatalf("WeightHistory() failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d points, want 2: %v", len(history), history)
	}
	// Oldest first, max per date.
	if history[0].Date != "2026-03-01" || history[0].Weight != 14 {
		t.Errorf("point 0 = %+v, want 2026-03-01 @ 14", history[0])
	}
	if history[1].Date != "2026-03-05" || history[1].Weight != 13 {
		t.Errorf("point 1 = %+v, want 2026-03-05 @ 13", history[1])
	}
}

func TestExercisesWithWeightLogs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, rowsA := entryFor(t, s, "Day A", "Dumbbell rows (pull)")
	_, curls := entryFor(t, s, "Day A", "Bicep curls (pull)")

	logWeight(t, s, SessionA, "2026-03-01", rowsA.ID, 14)
	logWeight(t, s, SessionA, "2026-03-02", curls.ID, 8)

	exercises, err := s.ExercisesWithWeightLogs(ctx)
	if err != nil {
		t.Fatalf("ExercisesWithWeightLogs() failed: %v", err)
	}
	if len(exercises) != 2 {
		t.Fatalf("got %d exercises, want 2", len(exercises))
	}
	// Ordered by name.
	if exercises[0].Name != "Bicep curls (pull)" || exercises[1].Name != "Dumbbell rows (pull)" {
		t.Errorf("order: %s, %s", exercises[0].Name, exercises[1].Name)
	}
}

func TestLastWeightsCarryOverAcrossPlans(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, rowsA := entryFor(t, s, "Day A", "Dumbbell rows (pull)")
	dayC, rowsC := entryFor(t, s, "Day C", "Dumbbell rows (pull)")

	logWeight(t, s, SessionA, "2026-03-01", rowsA.ID, 14)
	logWeight(t, s, SessionA, "2026-03-05", rowsA.ID, 16)

	weights, err := s.LastWeights(ctx, dayC.ID)
	if err != nil {
		t.Fatalf("LastWeights() failed: %v", err)
	}

	// Day C never logged the exercise, yet inherits the weight from the
	// Day A entries via the shared catalog exercise. Most recent wins.
	if got, ok := weights[rowsC.ID]; !ok || got != 16 {
		t.Errorf("carry-over weight = %v (present=%v), want 16", got, ok)
	}
}

func TestLastWeightsPrefersMostRecentSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dayA, rowsA := entryFor(t, s, "Day A", "Dumbbell rows (pull)")

	// Later insertion with an earlier calendar date still wins: recency
	// is session insertion order.
	logWeight(t, s, SessionA, "2026-03-05", rowsA.ID, 14)
	logWeight(t, s, SessionA, "2026-03-01", rowsA.ID, 12)

	weights, err := s.LastWeights(ctx, dayA.ID)
	if err != nil {
		t.Fatal(err)
	}
	if weights[rowsA.ID] != 12 {
		t.Errorf("last weight = %v, want 12 from the most recent session", weights[rowsA.ID])
	}
}

func TestSessionCountsByWeek(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// 2026-03-02 .. 2026-03-08 is ISO week 10; 2026-03-09 starts week 11.
	for _, sess := range []Session{
		{Type: SessionA, Date: "2026-03-02"},
		{Type: SessionB, Date: "2026-03-04"},
		{Type: SessionB, Date: "2026-03-06"},
		{Type: SessionC, Date: "2026-03-09"},
		{Type: SessionA, Date: "2026-03-07", IsPartial: true}, // excluded
	} {
		if _, err := s.InsertSession(ctx, sess); err != nil {
			t.Fatal(err)
		}
	}

	buckets, err := s.SessionCountsByPeriod(ctx, Weekly)
	if err != nil {
		t.Fatalf("SessionCountsByPeriod() failed: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2: %v", len(buckets), buckets)
	}
	if buckets[0].Key != "2026-W10" || buckets[0].Count != 3 {
		t.Errorf("bucket 0 = %+v, want 2026-W10 count 3", buckets[0])
	}
	if buckets[0].DominantType != SessionB {
		t.Errorf("week 10 dominant = %s, want B (majority)", buckets[0].DominantType)
	}
	if buckets[1].Key != "2026-W11" || buckets[1].DominantType != SessionC {
		t.Errorf("bucket 1 = %+v, want 2026-W11 dominant C", buckets[1])
	}
}

func TestSessionCountsByMonth(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, sess := range []Session{
		{Type: SessionA, Date: "2026-02-27"},
		{Type: SessionB, Date: "2026-03-01"},
		{Type: SessionA, Date: "2026-03-15"},
	} {
		if _, err := s.InsertSession(ctx, sess); err != nil {
			t.Fatal(err)
		}
	}

	buckets, err := s.SessionCountsByPeriod(ctx, Monthly)
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	if buckets[0].Key != "2026-02" || buckets[1].Key != "2026-03" {
		t.Errorf("bucket keys: %s, %s", buckets[0].Key, buckets[1].Key)
	}
	if buckets[1].Count != 2 {
		t.Errorf("march count = %d, want 2", buckets[1].Count)
	}
}

func TestDominantTypeTieBreaksAlphabetically(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// One B and one C in the same week: tie resolves to the earlier
	// rotation slot.
	for _, sess := range []Session{
		{Type: SessionC, Date: "2026-03-02"},
		{Type: SessionB, Date: "2026-03-03"},
	} {
		if _, err := s.InsertSession(ctx, sess); err != nil {
			t.Fatal(err)
		}
	}

	buckets, err := s.SessionCountsByPeriod(ctx, Weekly)
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	if buckets[0].DominantType != SessionB {
		t.Errorf("tie dominant = %s, want B", buckets[0].DominantType)
	}
}

func TestPersonalBests(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, rowsA := entryFor(t, s, "Day A", "Dumbbell rows (pull)")
	_, press := entryFor(t, s, "Day A", "Shoulder press (push)")

	logWeight(t, s, SessionA, "2026-03-02", rowsA.ID, 14)
	logWeight(t, s, SessionB, "2026-03-03", press.ID, 18)
	logWeight(t, s, SessionC, "2026-03-04", rowsA.ID, 16)

	for _, date := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		if _, err := s.UpsertChallenge(ctx, date, MaxChallengeSets); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.UpsertChallenge(ctx, "2026-03-05", MaxChallengeSets); err != nil {
		t.Fatal(err)
	}

	bests, err := s.PersonalBests(ctx)
	if err != nil {
		t.Fatalf("PersonalBests() failed: %v", err)
	}

	if bests.HeaviestLift == nil {
		t.Fatal("no heaviest lift")
	}
	if bests.HeaviestLift.Exercise != "Shoulder press (push)" || bests.HeaviestLift.Weight != 18 {
		t.Errorf("heaviest lift = %+v, want Shoulder press @ 18", bests.HeaviestLift)
	}
	if bests.LongestSessionStreak != 3 {
		t.Errorf("session streak = %d, want 3", bests.LongestSessionStreak)
	}
	if bests.LongestChallengeStreak != 3 {
		t.Errorf("challenge streak = %d, want 3", bests.LongestChallengeStreak)
	}
	if bests.MostSessionsInWeek != 3 {
		t.Errorf("most sessions in a week = %d, want 3", bests.MostSessionsInWeek)
	}
}

func TestPersonalBestsEmptyDatabase(t *testing.T) {
	s := openTestStore(t)

	bests, err := s.PersonalBests(context.Background())
	if err != nil {
		t.Fatalf("PersonalBests() failed: %v", err)
	}
	if bests.HeaviestLift != nil {
		t.Errorf("heaviest lift = %+v, want nil", bests.HeaviestLift)
	}
	if bests.LongestSessionStreak != 0 || bests.MostSessionsInWeek != 0 {
		t.Errorf("empty bests = %+v", bests)
	}
}

func TestChallengeHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for date, sets := range map[string]int{
		"2026-01-15": 3,
		"2026-06-01": 1,
		"2026-06-02": 0, // zero progress is absent from history
		"2025-12-31": 3, // other year
	} {
		if _, err := s.UpsertChallenge(ctx, date, sets); err != nil {
			t.Fatal(err)
		}
	}

	history, err := s.ChallengeHistory(ctx, 2026)
	if err != nil {
		t.Fatalf("ChallengeHistory() failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history has %d entries, want 2: %v", len(history), history)
	}
	if history["2026-01-15"] != 3 || history["2026-06-01"] != 1 {
		t.Errorf("history = %v", history)
	}
	if _, ok := history["2026-06-02"]; ok {
		t.Error("zero-progress date present in history")
	}
}
