package main

import (
	"fmt"

	"github.com/avanian/gymtrack/internal/store"
	"github.com/avanian/gymtrack/internal/ui"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <workout> <exercise>",
	Short: "Add an exercise to a plan",
	Long: `Add a catalog exercise to a plan. Without --position the exercise is
appended; with it, later entries shift down one slot.

Defaults: 3 sets of 10 reps with 30 seconds rest, or 60 seconds when
--timed. The command is a dry run until --execute is passed.

Example usage:
  gymtrack add "day b" "leg raises" --execute
  gymtrack add a "goblet squat" --position 3 --sets 4 --reps 8 --execute
  gymtrack add c "wall sit" --timed --reps 45 --execute`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().Int("position", 0, "insert position (default appends)")
	addCmd.Flags().Int("sets", 0, "sets (default 3)")
	addCmd.Flags().Int("reps", 0, "reps, or seconds with --timed (default 10 / 60)")
	addCmd.Flags().Int("rest", -1, "rest seconds (default 30)")
	addCmd.Flags().Bool("timed", false, "count seconds instead of reps")
	addCmd.Flags().Bool("weight", false, "track a weight for this entry")
	addCmd.Flags().Bool("execute", false, "apply the change instead of dry-running")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()

	workout, err := s.ResolveWorkout(ctx, args[0])
	if err != nil {
		return err
	}
	exercise, err := s.ResolveExercise(ctx, args[1])
	if err != nil {
		return err
	}

	opts := store.AddOptions{}
	if cmd.Flags().Changed("position") {
		v, _ := cmd.Flags().GetInt("position")
		opts.Position = &v
	}
	if cmd.Flags().Changed("sets") {
		v, _ := cmd.Flags().GetInt("sets")
		opts.Sets = &v
	}
	if cmd.Flags().Changed("reps") {
		v, _ := cmd.Flags().GetInt("reps")
		opts.CounterValue = &v
	}
	if cmd.Flags().Changed("rest") {
		v, _ := cmd.Flags().GetInt("rest")
		opts.RestSeconds = &v
	}
	opts.Timed, _ = cmd.Flags().GetBool("timed")
	opts.Weighted, _ = cmd.Flags().GetBool("weight")

	fmt.Printf("\nAdd to %q: %s\n", workout.Name, exercise.Name)

	execute, _ := cmd.Flags().GetBool("execute")
	if !execute {
		fmt.Println(ui.Warn.Render("\nDry run: pass --execute to apply."))
		return nil
	}

	if err := backupDatabase(s.Path()); err != nil {
		return err
	}
	entry, err := s.AddExercise(ctx, workout, exercise, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Done. Added at position %d.\n", entry.Position)
	return nil
}
