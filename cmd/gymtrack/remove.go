package main

import (
	"fmt"

	"github.com/avanian/gymtrack/internal/ui"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <workout> <exercise>",
	Short: "Remove an exercise from a plan",
	Long: `Retire an exercise from a plan and close the position gap. The entry's
logged history survives; only its active flag changes.

Example usage:
  gymtrack remove "day c" "dead bugs"
  gymtrack remove c "dead bugs" --execute`,
	Args: cobra.ExactArgs(2),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().Bool("execute", false, "apply the change instead of dry-running")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("\nRemove from %q: %s\n", workout.Name, exercise.Name)

	execute, _ := cmd.Flags().GetBool("execute")
	if !execute {
		fmt.Println(ui.Warn.Render("\nDry run: pass --execute to apply."))
		return nil
	}

	if err := backupDatabase(s.Path()); err != nil {
		return err
	}
	if err := s.RemoveExercise(ctx, workout, exercise); err != nil {
		return err
	}
	fmt.Println("Done.")
	return nil
}
