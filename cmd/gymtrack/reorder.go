package main

import (
	"fmt"
	"strconv"

	"github.com/avanian/gymtrack/internal/ui"
	"github.com/spf13/cobra"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <workout> <from> <to>",
	Short: "Move an exercise to a new position",
	Long: `Move the exercise at one position to another, shifting everything in
between. Positions end up renumbered 1..n.

Example usage:
  gymtrack reorder "day a" 5 2
  gymtrack reorder a 5 2 --execute`,
	Args: cobra.ExactArgs(3),
	RunE: runReorder,
}

func init() {
	reorderCmd.Flags().Bool("execute", false, "apply the change instead of dry-running")
	rootCmd.AddCommand(reorderCmd)
}

func runReorder(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("source position %q is not a number", args[1])
	}
	to, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("target position %q is not a number", args[2])
	}

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

	fmt.Printf("\nReorder in %q: position %d -> %d\n", workout.Name, from, to)

	execute, _ := cmd.Flags().GetBool("execute")
	if !execute {
		fmt.Println(ui.Warn.Render("\nDry run: pass --execute to apply."))
		return nil
	}

	if err := backupDatabase(s.Path()); err != nil {
		return err
	}
	if err := s.ReorderExercise(ctx, workout, from, to); err != nil {
		return err
	}
	fmt.Println("Done.")
	return nil
}
