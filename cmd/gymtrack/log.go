package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/avanian/gymtrack/internal/store"
	"github.com/avanian/gymtrack/internal/ui"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log [A|B|C]",
	Short: "Record a completed workout session",
	Long: `Record a session for today (or --date). Without a rotation slot the
next slot in the A/B/C rotation is used.

Weights lifted during the session can be attached with repeated --weight
flags; each resolves the exercise against the slot's plan and stores one
log entry.

Example usage:
  gymtrack log
  gymtrack log B --duration 45 --feedback good
  gymtrack log A --weight "dumbbell rows=14" --weight "curls=8"
  gymtrack log C --partial`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLog,
}

func init() {
	logCmd.Flags().String("date", "", "session date (default today)")
	logCmd.Flags().Int("duration", 0, "duration in minutes")
	logCmd.Flags().String("started", "", "wall-clock start time")
	logCmd.Flags().Bool("partial", false, "session was abandoned early")
	logCmd.Flags().String("feedback", "", "qualitative feedback tag")
	logCmd.Flags().StringArray("weight", nil, "exercise=weight pair, repeatable")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()

	var sessionType store.SessionType
	if len(args) == 1 {
		sessionType = store.SessionType(strings.ToUpper(args[0]))
		if !sessionType.Valid() {
			return fmt.Errorf("unknown session type %q, want A, B or C", args[0])
		}
	} else {
		if sessionType, err = s.NextSessionType(ctx); err != nil {
			return err
		}
	}

	sess := store.Session{Type: sessionType, Date: today()}
	if date, _ := cmd.Flags().GetString("date"); date != "" {
		sess.Date = date
	}
	if minutes, _ := cmd.Flags().GetInt("duration"); minutes > 0 {
		seconds := minutes * 60
		sess.DurationSeconds = &seconds
	}
	if started, _ := cmd.Flags().GetString("started"); started != "" {
		sess.StartedAt = &started
	}
	sess.IsPartial, _ = cmd.Flags().GetBool("partial")
	if feedback, _ := cmd.Flags().GetString("feedback"); feedback != "" {
		sess.Feedback = &feedback
	}

	weightFlags, _ := cmd.Flags().GetStringArray("weight")
	logs, err := parseWeightLogs(ctx, s, sessionType, weightFlags)
	if err != nil {
		return err
	}

	if err := backupDatabase(s.Path()); err != nil {
		return err
	}
	inserted, err := s.InsertSession(ctx, sess)
	if err != nil {
		return err
	}
	if len(logs) > 0 {
		if err := s.InsertExerciseLogs(ctx, inserted.ID, logs); err != nil {
			return err
		}
	}

	fmt.Printf("Logged %s session on %s.\n", ui.Accent.Render(string(sessionType)), sess.Date)
	next, err := s.NextSessionType(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Next up: %s.\n", next.PlanName())
	return nil
}

// parseWeightLogs turns repeated exercise=weight flags into log rows
// bound to the slot's plan entries.
func parseWeightLogs(ctx context.Context, s *store.Store, sessionType store.SessionType, pairs []string) ([]store.ExerciseLog, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	workout, err := s.WorkoutByName(ctx, sessionType.PlanName())
	if err != nil {
		return nil, err
	}
	if workout == nil {
		return nil, fmt.Errorf("no plan named %q", sessionType.PlanName())
	}
	entries, err := s.PlanEntries(ctx, workout.ID, false)
	if err != nil {
		return nil, err
	}

	var logs []store.ExerciseLog
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("weight %q: want exercise=weight", pair)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("weight %q: %w", pair, err)
		}

		exercise, err := s.ResolveExercise(ctx, strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		var entryID int64
		for _, pe := range entries {
			if pe.Exercise.ID == exercise.ID {
				entryID = pe.Entry.ID
				break
			}
		}
		if entryID == 0 {
			return nil, fmt.Errorf("%q is not in %s", exercise.Name, workout.Name)
		}
		w := weight
		logs = append(logs, store.ExerciseLog{WorkoutExerciseID: entryID, Weight: &w})
	}
	return logs, nil
}
