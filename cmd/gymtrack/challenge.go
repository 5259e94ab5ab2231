package main

import (
	"fmt"
	"time"

	"github.com/avanian/gymtrack/internal/store"
	"github.com/avanian/gymtrack/internal/streak"
	"github.com/avanian/gymtrack/internal/ui"
	"github.com/spf13/cobra"
)

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Show today's daily challenge progress",
	Long: `Show how many of today's challenge sets are done, plus the current
completion streak.

Example usage:
  gymtrack challenge
  gymtrack challenge done     # Record one more set
  gymtrack challenge year     # Calendar of the current year`,
	RunE: runChallengeStatus,
}

var challengeDoneCmd = &cobra.Command{
	Use:   "done",
	Short: "Record one completed challenge set",
	Long: `Record one more completed set of today's challenge. Progress caps at
the daily maximum; extra sets past it are not counted.`,
	RunE: runChallengeDone,
}

var challengeYearCmd = &cobra.Command{
	Use:   "year [year]",
	Short: "Show challenge progress for a year",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runChallengeYear,
}

func init() {
	challengeCmd.AddCommand(challengeDoneCmd)
	challengeCmd.AddCommand(challengeYearCmd)
	rootCmd.AddCommand(challengeCmd)
}

func runChallengeStatus(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()

	c, err := s.ChallengeForDate(ctx, today())
	if err != nil {
		return err
	}
	sets := 0
	if c != nil {
		sets = c.SetsCompleted
	}
	fmt.Printf("Today: %s / %d sets\n", ui.Accent.Render(fmt.Sprintf("%d", sets)), store.MaxChallengeSets)

	dates, err := s.CompletedChallengeDates(ctx)
	if err != nil {
		return err
	}
	current := streak.Current(dates, time.Now())
	fmt.Printf("Streak: %d day(s)\n", current)
	return nil
}

func runChallengeDone(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()

	if err := backupDatabase(s.Path()); err != nil {
		return err
	}
	c, err := s.IncrementChallenge(ctx, today())
	if err != nil {
		return err
	}
	if c.SetsCompleted == store.MaxChallengeSets {
		fmt.Printf("%s %d / %d sets, challenge complete.\n",
			ui.Accent.Render("Done!"), c.SetsCompleted, store.MaxChallengeSets)
	} else {
		fmt.Printf("%d / %d sets.\n", c.SetsCompleted, store.MaxChallengeSets)
	}
	return nil
}

func runChallengeYear(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()

	year := time.Now().Year()
	if len(args) == 1 {
		if _, err := fmt.Sscanf(args[0], "%d", &year); err != nil {
			return fmt.Errorf("year %q is not a number", args[0])
		}
	}

	history, err := s.ChallengeHistory(ctx, year)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Printf("No challenge progress in %d.\n", year)
		return nil
	}

	complete := 0
	for _, sets := range history {
		if sets == store.MaxChallengeSets {
			complete++
		}
	}
	fmt.Printf("%d: %d day(s) with progress, %s complete.\n",
		year, len(history), ui.Accent.Render(fmt.Sprintf("%d", complete)))
	return nil
}
