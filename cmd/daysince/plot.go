package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/daysince/internal/aggregate"
	"github.com/boshu2/daysince/internal/formatter"
	"github.com/boshu2/daysince/internal/streak"
)

var (
	plotToday  string
	plotWidth  int
	plotHeight int
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Chart streaks and incidents per month",
	Long: `Draw the daily streak series from the first incident to today, with
the best streak highlighted, and the number of incidents per calendar
month, with the worst month highlighted.

Examples:
  daysince plot
  daysince plot --width 120 --height 15
  daysince plot -o json`,
	Args: cobra.NoArgs,
	RunE: runPlot,
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringVar(&plotToday, "today", "", "Plot up to this date (YYYY-MM-DD, default: today)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "Chart width in columns")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "Streak chart height in rows")
}

// plotData is the structured output of plot.
type plotData struct {
	Daily      []aggregate.DayPoint   `json:"daily" yaml:"daily"`
	BestStreak *streak.Segment        `json:"best_streak,omitempty" yaml:"best_streak,omitempty"`
	Monthly    []aggregate.MonthCount `json:"monthly" yaml:"monthly"`
	WorstMonth *aggregate.MonthCount  `json:"worst_month,omitempty" yaml:"worst_month,omitempty"`
}

func runPlot(cmd *cobra.Command, args []string) error {
	today, err := parseDay("today", plotToday)
	if err != nil {
		return err
	}
	history, err := openStore().Load()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	daily, err := aggregate.DailyStreaks(history, today)
	if errors.Is(err, streak.ErrNoHistory) {
		_, err = fmt.Fprintln(w, "No incidents recorded. Run 'daysince init' to start tracking.")
		return err
	}
	if err != nil {
		return err
	}
	segments, err := streak.Segments(history, today)
	if err != nil {
		return err
	}

	data := plotData{Daily: daily}
	if best, ok := aggregate.BestStreakGroup(segments); ok {
		data.BestStreak = &best
	}
	counts := aggregate.MonthlyIncidentCounts(history)
	data.Monthly = aggregate.Chronological(counts)
	if worst, ok := aggregate.WorstMonth(counts); ok {
		data.WorstMonth = &worst
	}
	logger.Debug("plot data", "days", len(daily), "months", len(data.Monthly))

	switch GetOutput() {
	case "json", "yaml":
		return writeStructured(w, GetOutput(), data)
	}

	var best streak.Segment
	if data.BestStreak != nil {
		best = *data.BestStreak
	}
	var worst aggregate.MonthCount
	if data.WorstMonth != nil {
		worst = *data.WorstMonth
	}
	_, err = fmt.Fprintf(w, "%s\n\n%s\n",
		formatter.StreakChart(daily, best, plotWidth, plotHeight),
		formatter.MonthlyChart(data.Monthly, worst, plotWidth),
	)
	return err
}
