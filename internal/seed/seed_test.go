package seed

import "testing"

func TestExercises(t *testing.T) {
	exercises, err := Exercises()
	if err != nil {
		t.Fatalf("Exercises() failed: %v", err)
	}

	if len(exercises) != 12 {
		t.Errorf("catalog size = %d, want 12", len(exercises))
	}

	weighted := 0
	for _, e := range exercises {
		if e.Name == "" {
			t.Error("exercise with empty name")
		}
		if e.Tip == "" {
			t.Errorf("exercise %q has no tip", e.Name)
		}
		if e.Weighted {
			weighted++
		}
	}
	if weighted != 4 {
		t.Errorf("weighted exercises = %d, want 4", weighted)
	}
}

func TestWorkouts(t *testing.T) {
	workouts, err := Workouts()
	if err != nil {
		t.Fatalf("Workouts() failed: %v", err)
	}

	if len(workouts) != 3 {
		t.Fatalf("plan count = %d, want 3", len(workouts))
	}

	wantEntries := map[string]int{
		"Day A": 9,
		"Day B": 7,
		"Day C": 7,
	}
	total := 0
	for _, w := range workouts {
		want, ok := wantEntries[w.Name]
		if !ok {
			t.Errorf("unexpected workout %q", w.Name)
			continue
		}
		if len(w.Exercises) != want {
			t.Errorf("%s entry count = %d, want %d", w.Name, len(w.Exercises), want)
		}
		total += len(w.Exercises)
	}
	if total != 23 {
		t.Errorf("total entries = %d, want 23", total)
	}
}

func TestWorkoutEntriesReferenceCatalog(t *testing.T) {
	exercises, err := Exercises()
	if err != nil {
		t.Fatalf("Exercises() failed: %v", err)
	}
	workouts, err := Workouts()
	if err != nil {
		t.Fatalf("Workouts() failed: %v", err)
	}

	known := make(map[string]bool, len(exercises))
	for _, e := range exercises {
		known[e.Name] = true
	}

	for _, w := range workouts {
		challenges := 0
		for _, entry := range w.Exercises {
			if !known[entry.Exercise] {
				t.Errorf("%s references unknown exercise %q", w.Name, entry.Exercise)
			}
			if entry.Unit != "reps" && entry.Unit != "timer" {
				t.Errorf("%s entry %q has unit %q", w.Name, entry.Exercise, entry.Unit)
			}
			if entry.Sets < 1 {
				t.Errorf("%s entry %q has sets %d", w.Name, entry.Exercise, entry.Sets)
			}
			if entry.Challenge {
				challenges++
			}
		}
		if challenges != 1 {
			t.Errorf("%s has %d daily challenge entries, want 1", w.Name, challenges)
		}
	}
}
