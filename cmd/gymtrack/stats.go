package main

import (
	"fmt"
	"time"

	"github.com/avanian/gymtrack/internal/store"
	"github.com/avanian/gymtrack/internal/streak"
	"github.com/avanian/gymtrack/internal/ui"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show training statistics",
	Long: `Show the training overview: current and longest streaks, the next
rotation slot, session counts per week or month, and personal bests.

Example usage:
  gymtrack stats
  gymtrack stats --monthly
  gymtrack stats --weights "dumbbell rows"`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().Bool("monthly", false, "bucket session counts by month instead of week")
	statsCmd.Flags().String("weights", "", "show the weight history of one exercise")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()

	if exercise, _ := cmd.Flags().GetString("weights"); exercise != "" {
		return showWeightHistory(cmd, s, exercise)
	}

	next, err := s.NextSessionType(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Next session: %s\n", ui.Accent.Render(next.PlanName()))

	sessionDates, err := s.NonPartialSessionDates(ctx)
	if err != nil {
		return err
	}
	challengeDates, err := s.CompletedChallengeDates(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	fmt.Printf("Gym streak: %d day(s), challenge streak: %d day(s)\n",
		streak.Current(sessionDates, now), streak.Current(challengeDates, now))

	granularity := store.Weekly
	if monthly, _ := cmd.Flags().GetBool("monthly"); monthly {
		granularity = store.Monthly
	}
	buckets, err := s.SessionCountsByPeriod(ctx, granularity)
	if err != nil {
		return err
	}
	if len(buckets) > 0 {
		fmt.Println()
		fmt.Println(ui.Header.Render("Sessions"))
		for _, b := range buckets {
			fmt.Printf("  %-10s %3d  (mostly %s)\n", b.Key, b.Count, b.DominantType)
		}
	}

	bests, err := s.PersonalBests(ctx)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(ui.Header.Render("Personal bests"))
	if bests.HeaviestLift != nil {
		fmt.Printf("  Heaviest lift:      %s (%s)\n",
			ui.Accent.Render(fmt.Sprintf("%.1f", bests.HeaviestLift.Weight)),
			bests.HeaviestLift.Exercise)
	}
	fmt.Printf("  Longest gym streak: %d day(s)\n", bests.LongestSessionStreak)
	fmt.Printf("  Longest challenge:  %d day(s)\n", bests.LongestChallengeStreak)
	fmt.Printf("  Best week:          %d session(s)\n", bests.MostSessionsInWeek)
	return nil
}

func showWeightHistory(cmd *cobra.Command, s *store.Store, query string) error {
	ctx := cmd.Context()

	exercise, err := s.ResolveExercise(ctx, query)
	if err != nil {
		return err
	}
	history, err := s.WeightHistory(ctx, exercise.ID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Printf("No weight logs for %s.\n", exercise.Name)
		return nil
	}

	fmt.Println(ui.Header.Render(exercise.Name))
	for _, p := range history {
		fmt.Printf("  %s  %.1f\n", p.Date, p.Weight)
	}
	return nil
}
