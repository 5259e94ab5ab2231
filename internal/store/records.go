package store

// SessionType identifies a slot in the A/B/C workout rotation.
type SessionType string

const (
	SessionA SessionType = "A"
	SessionB SessionType = "B"
	SessionC SessionType = "C"
)

// Next returns the rotation slot that follows this one. The rotation is
// A, B, C and wraps; any unknown value restarts at A.
func (t SessionType) Next() SessionType {
	switch t {
	case SessionA:
		return SessionB
	case SessionB:
		return SessionC
	default:
		return SessionA
	}
}

// PlanName returns the name of the workout plan for this rotation slot.
func (t SessionType) PlanName() string {
	return "Day " + string(t)
}

// Valid reports whether t is one of the three rotation slots.
func (t SessionType) Valid() bool {
	return t == SessionA || t == SessionB || t == SessionC
}

// Session is one completed (or abandoned) workout. Rows are written once
// and never updated.
type Session struct {
	ID              int64
	Type            SessionType
	Date            string // YYYY-MM-DD
	StartedAt       *string
	DurationSeconds *int
	IsPartial       bool
	Feedback        *string
}

// DailyChallenge tracks progress on the daily challenge for one date.
// At most one row exists per date; SetsCompleted never exceeds
// MaxChallengeSets.
type DailyChallenge struct {
	ID            int64
	Date          string // YYYY-MM-DD
	SetsCompleted int
}

// MaxChallengeSets is the cap on daily challenge progress.
const MaxChallengeSets = 3

// Exercise is one activity in the catalog. Classification fields are
// NULL for the built-in seed and populated for imported activities.
type Exercise struct {
	ID               int64
	Name             string
	Description      *string
	Instructions     *string
	Tip              *string
	ExternalID       *string
	HasWeight        bool
	CounterUnit      string
	DefaultValue     *int
	IsDailyChallenge bool
	Level            *string
	Category         *string
	Force            *string
	Mechanic         *string
	Equipment        *string
	PrimaryMuscles   []string
	SecondaryMuscles []string
}

// Workout is a named plan of ordered exercises.
type Workout struct {
	ID          int64
	Name        string
	Description *string
}

// WorkoutExercise is one positioned entry in a plan. Display fields are
// denormalized from the catalog at creation so a later swap can retire
// the entry without rewriting history. Retired entries keep their rows
// with IsActive false and a negative position.
type WorkoutExercise struct {
	ID               int64
	WorkoutID        int64
	ExerciseID       int64
	Position         int
	CounterUnit      *string
	CounterValue     *int
	CounterLabel     *string
	RestSeconds      int
	Sets             int
	IsDailyChallenge bool
	HasWeight        bool
	IsActive         bool
}

// ExerciseLog records the outcome of one plan entry within one session.
// At most one log exists per (session, entry) pair.
type ExerciseLog struct {
	ID                int64
	SessionID         int64
	WorkoutExerciseID int64
	Weight            *float64
	Failed            bool
	AchievedValue     *int
}
