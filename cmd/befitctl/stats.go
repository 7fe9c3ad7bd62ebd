package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/2beens/befit/internal/gymstats/stats"
	"github.com/2beens/befit/internal/identity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var flagStatsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats <email>",
	Short: "Print the last 28 days of exercise statistics for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := identityManager.FindByEmail(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, identity.ErrUserNotFound) {
				return fmt.Errorf("user not found: %s", args[0])
			}
			return err
		}

		s, err := stats.NewAnalyzer(gymRepo).ComputeStats(cmd.Context(), user.ID, time.Now())
		if err != nil {
			return fmt.Errorf("compute stats: %w", err)
		}

		if flagStatsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}

		return printStats(cmd.OutOrStdout(), s)
	},
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsJSON, "json", false, "print stats as JSON")
	rootCmd.AddCommand(statsCmd)
}

func printStats(w io.Writer, s *stats.Stats) error {
	fmt.Fprintf(w, "%s: %d sessions, %d exercises\n",
		color.New(color.Bold).Sprintf("%s - %s", s.FromDate.Format("02.01.2006"), s.ToDate.Format("02.01.2006")),
		s.TotalSessions, s.TotalExercises,
	)
	if len(s.Exercises) == 0 {
		fmt.Fprintln(w, "no exercises in this period")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EXERCISE\tTIMES\tREPS\tAVG KG\tMAX KG")
	for _, e := range s.Exercises {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\n",
			e.ExerciseType, e.TimesPerformed, e.TotalReps, e.AverageWeight, e.MaxWeight,
		)
	}
	return tw.Flush()
}
