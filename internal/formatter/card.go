package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/boshu2/daysince/internal/report"
)

// ReportCard renders a report as a bordered terminal card.
func ReportCard(w io.Writer, rep report.Report, r *report.Renderer, team string) error {
	msgs := r.Messages()

	title := r.Title(rep)
	if rep.Defined && rep.Status.Emoji != "" {
		title = rep.Status.Emoji + " " + title
	}
	if team != "" {
		title += " | " + team
	}

	lines := []string{titleStyle.Render(title), ""}
	if !rep.Defined {
		lines = append(lines,
			valueStyle.Render("No incidents recorded yet."),
			dimStyle.Render("Run 'daysince init' to start tracking."),
		)
		return writeCard(w, lines)
	}

	row := func(label, value string, style lipgloss.Style) string {
		return labelStyle.Render(fmt.Sprintf("%-16s", label)) + style.Render(value)
	}
	last := r.LastIncidentDate(rep)
	if rep.LastIncident != nil && rep.LastIncident.Description != "" {
		last += "  " + rep.LastIncident.Description
	}

	lines = append(lines,
		row("Current streak", plural(rep.CurrentStreak, "day"), streakStyle(rep.CurrentStreak, rep.RecordStreak)),
		row("Status", rep.Status.String(), valueStyle),
		row("Last incident", last, valueStyle),
		row("Record streak", plural(rep.RecordStreak, "day"), valueStyle),
	)
	if rep.NewRecord {
		lines = append(lines, "", okStyle.Bold(true).Render(plainMrkdwn(msgs.NewRecord)))
	}
	if rep.HasMilestone() {
		lines = append(lines, "", warnStyle.Render(plainMrkdwn(msgs.MilestoneHeader)), valueStyle.Render(rep.Milestone))
	}
	if rep.CurrentStreak > 0 {
		lines = append(lines, "", dimStyle.Render(r.Footer(rep)))
	}
	return writeCard(w, lines)
}

func writeCard(w io.Writer, lines []string) error {
	_, err := fmt.Fprintln(w, cardStyle.Render(strings.Join(lines, "\n")))
	return err
}

// plainMrkdwn strips Slack bold markers for terminal display.
func plainMrkdwn(s string) string {
	return strings.ReplaceAll(s, "*", "")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
