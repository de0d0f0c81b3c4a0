package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/boshu2/daysince/internal/formatter"
	"github.com/boshu2/daysince/internal/incident"
	"github.com/boshu2/daysince/internal/notifier"
	"github.com/boshu2/daysince/internal/report"
	"github.com/boshu2/daysince/internal/streak"
)

var (
	resetDate        string
	resetToday       string
	resetDescription string
	resetSeverity    string
	resetPostmortem  string
	resetNotify      bool
)

var resetCmd = &cobra.Command{
	Use:     "reset",
	Aliases: []string{"add"},
	Short:   "Record a new incident and restart the streak",
	Long: `Append an incident to the history and report the new streak state.

The history file is rewritten atomically: either the incident is recorded
and the report reflects it, or nothing changes.

Examples:
  daysince reset --description "Checkout API 5xx spike" --severity Sev2
  daysince reset --date 2025-03-02 --postmortem https://wiki.example.com/pm/17 --notify
  daysince add --dry-run --description "test"`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().StringVar(&resetDate, "date", "", "Incident date (YYYY-MM-DD, default: today)")
	resetCmd.Flags().StringVar(&resetToday, "today", "", "Treat this date as today (YYYY-MM-DD)")
	resetCmd.Flags().StringVar(&resetDescription, "description", "", "Brief incident description")
	resetCmd.Flags().StringVar(&resetSeverity, "severity", "", "Incident severity (e.g. Sev1, Sev2)")
	resetCmd.Flags().StringVar(&resetPostmortem, "postmortem", "", "Link to the postmortem document")
	resetCmd.Flags().BoolVar(&resetNotify, "notify", false, "Announce the incident on the configured webhook")
}

// resetResult is the structured output of reset.
type resetResult struct {
	Incident    incident.Record `json:"incident" yaml:"incident"`
	StreakEnded int             `json:"streak_ended_days" yaml:"streak_ended_days"`
	Saved       bool            `json:"saved" yaml:"saved"`
	Report      report.Report   `json:"report" yaml:"report"`
}

func runReset(cmd *cobra.Command, args []string) error {
	today, err := parseDay("today", resetToday)
	if err != nil {
		return err
	}
	var date incident.Date
	if resetDate != "" {
		if date, err = parseDay("date", resetDate); err != nil {
			return err
		}
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	renderer, err := report.NewRenderer(cfg.ReportMessages())
	if err != nil {
		return err
	}

	store := openStore()
	before, err := store.Load()
	if err != nil {
		return err
	}
	rec, err := incident.NewRecord(date, resetDescription, resetSeverity, resetPostmortem, today)
	if err != nil {
		return err
	}
	after := before.Append(rec)

	// Everything that can fail is computed before the history is written.
	summary, err := streak.Analyze(after, today)
	if err != nil {
		return err
	}
	rep, err := report.Build(summary, rules)
	if err != nil {
		return err
	}
	notice := report.NewResetNotice(before, rec)

	saved := false
	if GetDryRun() {
		logger.Debug("dry run, history not written", "path", store.Location())
	} else {
		if err := store.Save(after); err != nil {
			return err
		}
		saved = true
		logger.Debug("incident recorded", "path", store.Location(), "id", rec.ID, "date", rec.Date)
	}

	out := cmd.OutOrStdout()
	result := resetResult{Incident: rec, StreakEnded: notice.StreakEnded, Saved: saved, Report: rep}
	if err := writeResetResult(out, result, renderer); err != nil {
		return err
	}

	if !resetNotify {
		return nil
	}
	n, err := newNotifier(out)
	if errors.Is(err, notifier.ErrNoWebhook) {
		logger.Warn("webhook URL not set, skipping notification")
		return nil
	}
	if err != nil {
		return err
	}
	if err := n.Send(cmd.Context(), renderer.ResetPayload(notice)); err != nil {
		return fmt.Errorf("incident recorded but notification failed: %w", err)
	}
	return nil
}

func writeResetResult(w io.Writer, res resetResult, renderer *report.Renderer) error {
	switch GetOutput() {
	case "json", "yaml":
		return writeStructured(w, GetOutput(), res)
	}

	verb := "added to history"
	if !res.Saved {
		verb = "would be added to history (dry run)"
	}
	lines := []string{
		fmt.Sprintf("✅ Incident %s. Date: %s", verb, res.Incident.Date),
		fmt.Sprintf("📊 Total incidents now: %d", res.Report.TotalIncidents),
		fmt.Sprintf("📉 Streak lost: %d days", res.StreakEnded),
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	if GetOutput() == "markdown" {
		return formatter.NewMarkdownFormatter(cfg.Team).FormatReport(w, res.Report, renderer)
	}
	return formatter.ReportCard(w, res.Report, renderer, cfg.Team)
}
