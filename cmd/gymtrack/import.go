package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/avanian/gymtrack/internal/store"
	"github.com/avanian/gymtrack/internal/ui"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import catalog exercises from a JSON file",
	Long: `Import exercises from a JSON array in the free-exercise-db shape.
Entries whose name already exists in the catalog (case-insensitive) are
skipped; the rest are inserted in one transaction.

Example usage:
  gymtrack import exercises.json
  gymtrack import exercises.json --execute`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().Bool("execute", false, "apply the import instead of dry-running")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	var entries []store.ImportedExercise
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse import file: expected a JSON array of exercises: %w", err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()

	// Dry-run pass: report what would happen without touching the file.
	existing, err := s.Exercises(ctx, store.ExerciseFilter{})
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(existing))
	for _, e := range existing {
		names[strings.ToLower(e.Name)] = true
	}
	var wouldImport, wouldSkip []string
	for _, e := range entries {
		if names[strings.ToLower(e.Name)] {
			wouldSkip = append(wouldSkip, e.Name)
		} else {
			wouldImport = append(wouldImport, e.Name)
		}
	}

	if len(wouldSkip) > 0 {
		fmt.Printf("\nSkipping %d existing exercise(s):\n", len(wouldSkip))
		for _, n := range wouldSkip {
			fmt.Printf("  - %s\n", n)
		}
	}
	if len(wouldImport) == 0 {
		fmt.Println("\nNothing to import.")
		return nil
	}
	fmt.Printf("\nWould import %d exercise(s):\n", len(wouldImport))
	for _, n := range wouldImport {
		fmt.Printf("  + %s\n", n)
	}

	execute, _ := cmd.Flags().GetBool("execute")
	if !execute {
		fmt.Println(ui.Warn.Render("\nDry run: pass --execute to apply."))
		return nil
	}

	if err := backupDatabase(s.Path()); err != nil {
		return err
	}
	result, err := s.ImportExercises(ctx, entries)
	if err != nil {
		return err
	}
	fmt.Printf("\nImported %d exercise(s).\n", len(result.Imported))
	return nil
}
