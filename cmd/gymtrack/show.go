package main

import (
	"fmt"

	"github.com/avanian/gymtrack/internal/store"
	"github.com/avanian/gymtrack/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [workout]",
	Short: "Show workout plans",
	Long: `Show the exercises of one workout plan, or of all plans.

The workout name is resolved loosely: an exact name, a unique substring,
or an error listing the candidates.

Example usage:
  gymtrack show             # All plans
  gymtrack show "day a"     # One plan by name
  gymtrack show b --all     # Include retired entries`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("all", false, "include retired (swapped-out) entries")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()

	var workouts []store.Workout
	if len(args) == 1 {
		w, err := s.ResolveWorkout(ctx, args[0])
		if err != nil {
			return err
		}
		workouts = []store.Workout{w}
	} else {
		if workouts, err = s.Workouts(ctx); err != nil {
			return err
		}
	}

	includeInactive, _ := cmd.Flags().GetBool("all")
	for _, w := range workouts {
		entries, err := s.PlanEntries(ctx, w.ID, includeInactive)
		if err != nil {
			return err
		}

		title := w.Name
		if w.Description != nil {
			title += "  (" + *w.Description + ")"
		}
		fmt.Println()
		fmt.Println(ui.Header.Render(title))
		if len(entries) == 0 {
			fmt.Println("  (no exercises)")
			continue
		}

		fmt.Printf("  %-4s %-34s %4s %10s %5s %3s\n", "#", "Exercise", "Sets", "Reps/Time", "Rest", "Wt")
		for _, pe := range entries {
			name := pe.Exercise.Name
			if !pe.Entry.IsActive {
				name = ui.Muted.Render(name + " [inactive]")
			}
			wt := ""
			if pe.Entry.HasWeight {
				wt = "Y"
			}
			fmt.Printf("  %-4d %-34s %4d %10s %4ds %3s\n",
				pe.Entry.Position, name, pe.Entry.Sets,
				formatCounter(pe.Entry), pe.Entry.RestSeconds, wt)
		}
	}
	fmt.Println()
	return nil
}

// formatCounter renders an entry's target: its label when one exists,
// m:ss for timed entries, a plain count otherwise.
func formatCounter(we store.WorkoutExercise) string {
	if we.CounterLabel != nil && *we.CounterLabel != "" {
		return *we.CounterLabel
	}
	if we.CounterValue == nil {
		return "-"
	}
	if we.CounterUnit != nil && *we.CounterUnit == "timer" {
		return fmt.Sprintf("%d:%02d", *we.CounterValue/60, *we.CounterValue%60)
	}
	return fmt.Sprintf("%d", *we.CounterValue)
}
