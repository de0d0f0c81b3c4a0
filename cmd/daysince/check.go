package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/boshu2/daysince/internal/formatter"
	"github.com/boshu2/daysince/internal/metrics"
	"github.com/boshu2/daysince/internal/report"
	"github.com/boshu2/daysince/internal/storage"
	"github.com/boshu2/daysince/internal/streak"
)

var (
	checkToday       string
	checkRequireSeed bool
	checkMetricsFile string
	checkNotify      bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report the current incident-free streak",
	Long: `Compute the current and record streaks from the incident history and
report them with the matching status and any milestone reached today.

Running check twice without recording an incident produces identical output.

Examples:
  daysince check
  daysince check -o json
  daysince check --notify                  # post to the configured Slack webhook
  daysince check --notify --dry-run        # print the Slack payload instead
  daysince check --metrics-file /var/lib/node_exporter/daysince.prom`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkToday, "today", "", "Evaluate as of this date (YYYY-MM-DD, default: today, local time)")
	checkCmd.Flags().BoolVar(&checkRequireSeed, "require-seed", false, "Fail when the history has no records")
	checkCmd.Flags().StringVar(&checkMetricsFile, "metrics-file", "", "Write Prometheus gauges to this textfile")
	checkCmd.Flags().BoolVar(&checkNotify, "notify", false, "Post the report to the configured webhook")
}

func runCheck(cmd *cobra.Command, args []string) error {
	today, err := parseDay("today", checkToday)
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	renderer, err := report.NewRenderer(cfg.ReportMessages())
	if err != nil {
		return err
	}

	var loadOpts []storage.LoadOption
	if checkRequireSeed {
		loadOpts = append(loadOpts, storage.RequireSeed())
	}
	store := openStore()
	history, err := store.Load(loadOpts...)
	if err != nil {
		return err
	}
	logger.Debug("history loaded", "path", store.Location(), "incidents", history.Len(), "today", today)

	summary, err := streak.Analyze(history, today)
	if err != nil {
		return err
	}
	rep, err := report.Build(summary, rules)
	if err != nil {
		return err
	}
	logger.Debug("streak computed", "current", rep.CurrentStreak, "record", rep.RecordStreak, "status", rep.Status.Label)

	out := cmd.OutOrStdout()
	if err := writeReport(out, rep, renderer); err != nil {
		return err
	}

	if path := firstNonEmpty(checkMetricsFile, cfg.Metrics.Textfile); path != "" {
		collector := metrics.New(cfg.Team)
		collector.Observe(rep)
		if err := collector.WriteTextfile(path); err != nil {
			return err
		}
		logger.Debug("metrics written", "path", path)
	}

	if !checkNotify {
		return nil
	}
	n, err := newNotifier(out)
	if err != nil {
		return err
	}
	if err := n.Send(cmd.Context(), renderer.CheckPayload(rep, cfg.Team)); err != nil {
		return fmt.Errorf("notify %s: %w", n.Name(), err)
	}
	logger.Info("notification sent", "notifier", n.Name())
	return nil
}

// writeReport renders rep in the resolved output format.
func writeReport(w io.Writer, rep report.Report, renderer *report.Renderer) error {
	switch GetOutput() {
	case "json", "yaml":
		return writeStructured(w, GetOutput(), rep)
	case "markdown":
		return formatter.NewMarkdownFormatter(cfg.Team).FormatReport(w, rep, renderer)
	default:
		return formatter.ReportCard(w, rep, renderer, cfg.Team)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
