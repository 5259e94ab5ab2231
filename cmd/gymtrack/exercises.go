package main

import (
	"fmt"
	"strings"

	"github.com/avanian/gymtrack/internal/store"
	"github.com/spf13/cobra"
)

var exercisesCmd = &cobra.Command{
	Use:   "exercises [query]",
	Short: "List the exercise catalog",
	Long: `List catalog exercises, optionally filtered by name fragment, muscle
group, or equipment. All filters are case-insensitive substrings.

Example usage:
  gymtrack exercises
  gymtrack exercises press
  gymtrack exercises --muscle quadriceps --equipment barbell`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExercises,
}

func init() {
	exercisesCmd.Flags().String("muscle", "", "filter by primary or secondary muscle")
	exercisesCmd.Flags().String("equipment", "", "filter by equipment")
	rootCmd.AddCommand(exercisesCmd)
}

func runExercises(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	filter := store.ExerciseFilter{}
	if len(args) == 1 {
		filter.Query = args[0]
	}
	filter.Muscle, _ = cmd.Flags().GetString("muscle")
	filter.Equipment, _ = cmd.Flags().GetString("equipment")

	exercises, err := s.Exercises(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if len(exercises) == 0 {
		fmt.Println("No exercises found.")
		return nil
	}

	fmt.Printf("\n%4s  %-36s %-14s %-24s %-12s\n", "ID", "Name", "Equipment", "Muscles", "Level")
	for _, e := range exercises {
		fmt.Printf("%4d  %-36s %-14s %-24s %-12s\n",
			e.ID, e.Name, deref(e.Equipment),
			strings.Join(e.PrimaryMuscles, ", "), deref(e.Level))
	}
	fmt.Printf("\n%d exercise(s) found.\n", len(exercises))
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
