// Package seed provides the bundled reference data used to provision a
// fresh database: the built-in exercise catalog and the default workout
// plans. The data ships embedded in the binary and is read exactly once,
// by the catalog-creation migration step.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed exercises.yaml
var exercisesData []byte

//go:embed workouts.yaml
var workoutsData []byte

// Exercise is one catalog entry from the bundled exercise list.
// Classification fields are optional and absent for the built-in catalog;
// they exist so imported catalogs share the same shape.
type Exercise struct {
	Name             string   `yaml:"name"`
	Tip              string   `yaml:"tip"`
	Instructions     string   `yaml:"instructions,omitempty"`
	Weighted         bool     `yaml:"weighted,omitempty"`
	Level            string   `yaml:"level,omitempty"`
	Category         string   `yaml:"category,omitempty"`
	Equipment        string   `yaml:"equipment,omitempty"`
	PrimaryMuscles   []string `yaml:"primaryMuscles,omitempty"`
	SecondaryMuscles []string `yaml:"secondaryMuscles,omitempty"`
}

// WorkoutEntry is one positioned exercise within a bundled workout plan.
type WorkoutEntry struct {
	Exercise  string `yaml:"exercise"`
	Unit      string `yaml:"unit"`
	Value     *int   `yaml:"value"`
	Label     string `yaml:"label,omitempty"`
	Rest      int    `yaml:"rest"`
	Sets      int    `yaml:"sets"`
	Challenge bool   `yaml:"challenge,omitempty"`
	Weighted  bool   `yaml:"weighted,omitempty"`
}

// Workout is one bundled workout plan with its ordered entries.
type Workout struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Exercises   []WorkoutEntry `yaml:"exercises"`
}

// LoadError reports a missing or malformed bundled dataset.
type LoadError struct {
	Dataset string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("seed dataset %s: %v", e.Dataset, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Exercises returns the bundled exercise catalog in catalog order.
func Exercises() ([]Exercise, error) {
	var exercises []Exercise
	if err := yaml.Unmarshal(exercisesData, &exercises); err != nil {
		return nil, &LoadError{Dataset: "exercises", Err: err}
	}
	if len(exercises) == 0 {
		return nil, &LoadError{Dataset: "exercises", Err: fmt.Errorf("no entries")}
	}
	return exercises, nil
}

// Workouts returns the bundled workout plans in plan order.
func Workouts() ([]Workout, error) {
	var workouts []Workout
	if err := yaml.Unmarshal(workoutsData, &workouts); err != nil {
		return nil, &LoadError{Dataset: "workouts", Err: err}
	}
	if len(workouts) == 0 {
		return nil, &LoadError{Dataset: "workouts", Err: fmt.Errorf("no entries")}
	}
	return workouts, nil
}
