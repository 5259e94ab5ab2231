package main

import (
	"fmt"

	"github.com/avanian/gymtrack/internal/store"
	"github.com/avanian/gymtrack/internal/ui"
	"github.com/spf13/cobra"
)

var swapCmd = &cobra.Command{
	Use:   "swap <workout> <old> <new>",
	Short: "Replace an exercise in a plan",
	Long: `Replace one exercise with another at the same position. The old entry
is retired, not deleted, so its logged history stays intact.

Programming (sets, reps, rest) carries over from the old entry unless
overridden. The command is a dry run until --execute is passed; the
first mutation of a run backs up the database file.

Example usage:
  gymtrack swap "day a" "dumbbell rows" "barbell rows"
  gymtrack swap a curls "hammer curls" --sets 4 --execute`,
	Args: cobra.ExactArgs(3),
	RunE: runSwap,
}

func init() {
	swapCmd.Flags().Int("sets", 0, "override sets for the new entry")
	swapCmd.Flags().Int("reps", 0, "override reps/value for the new entry")
	swapCmd.Flags().Int("rest", -1, "override rest seconds for the new entry")
	swapCmd.Flags().Bool("execute", false, "apply the change instead of dry-running")
	rootCmd.AddCommand(swapCmd)
}

func runSwap(cmd *cobra.Command, args []string) error {
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
	oldEx, err := s.ResolveExercise(ctx, args[1])
	if err != nil {
		return err
	}
	newEx, err := s.ResolveExercise(ctx, args[2])
	if err != nil {
		return err
	}

	opts := store.SwapOptions{}
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

	fmt.Printf("\nSwap in %q:\n  %s -> %s\n", workout.Name, oldEx.Name, newEx.Name)

	execute, _ := cmd.Flags().GetBool("execute")
	if !execute {
		fmt.Println(ui.Warn.Render("\nDry run: pass --execute to apply."))
		return nil
	}

	if err := backupDatabase(s.Path()); err != nil {
		return err
	}
	entry, err := s.SwapExercise(ctx, workout, oldEx, newEx, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Done. %s now at position %d.\n", newEx.Name, entry.Position)
	return nil
}
