// Package formatter renders reports and incident history for terminals,
// Markdown documents and JSON Lines exports.
package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/boshu2/daysince/internal/report"
)

// MarkdownFormatter outputs reports and history as GitHub-flavored markdown.
type MarkdownFormatter struct {
	// Team is shown in the report heading when set.
	Team string
}

// NewMarkdownFormatter creates a markdown formatter.
func NewMarkdownFormatter(team string) *MarkdownFormatter {
	return &MarkdownFormatter{Team: team}
}

// reportData holds all data for the report template.
type reportData struct {
	Title     string
	Team      string
	Report    report.Report
	LastDate  string
	NewRecord string
	Milestone string
	Footer    string
}

// FormatReport writes a check report as markdown.
func (mf *MarkdownFormatter) FormatReport(w io.Writer, rep report.Report, r *report.Renderer) error {
	msgs := r.Messages()
	data := reportData{
		Title:    r.Title(rep),
		Team:     mf.Team,
		Report:   rep,
		LastDate: r.LastIncidentDate(rep),
	}
	if rep.NewRecord {
		data.NewRecord = mdBold(msgs.NewRecord)
	}
	if rep.HasMilestone() {
		data.Milestone = mdBold(msgs.MilestoneHeader) + "\n" + rep.Milestone
	}
	if rep.CurrentStreak > 0 {
		data.Footer = r.Footer(rep)
	}
	return mf.execute(w, "report", reportTemplate, data)
}

// FormatHistory writes the incident list as a markdown table.
func (mf *MarkdownFormatter) FormatHistory(w io.Writer, rows []HistoryRow) error {
	return mf.execute(w, "history", historyTemplate, rows)
}

func (mf *MarkdownFormatter) execute(w io.Writer, name, text string, data any) error {
	tmpl, err := template.New(name).Funcs(mf.templateFuncs()).Parse(text)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	return tmpl.Execute(w, data)
}

// templateFuncs returns custom template functions.
func (mf *MarkdownFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"cell": func(s string) string {
			if s == "" {
				return "-"
			}
			return strings.ReplaceAll(flatten(s), "|", `\|`)
		},
		"link": func(url string) string {
			if url == "" {
				return "-"
			}
			return fmt.Sprintf("[postmortem](%s)", url)
		},
		"streak": func(r HistoryRow) string {
			return r.streakCell()
		},
	}
}

// mdBold converts Slack single-asterisk bold to markdown double-asterisk.
func mdBold(s string) string {
	return strings.ReplaceAll(s, "*", "**")
}

const reportTemplate = `# {{ if .Report.Status.Emoji }}{{ .Report.Status.Emoji }} {{ end }}{{ .Title }}{{ if .Team }} | {{ .Team }}{{ end }}

_As of {{ .Report.Date }}_
{{- if not .Report.Defined }}

No incidents are recorded yet.
{{- else }}

| | |
|---|---|
| **Current streak** | {{ .Report.CurrentStreak }} days |
| **Status** | {{ .Report.Status.Label }} |
| **Last incident** | {{ .LastDate }}{{ with .Report.LastIncident }}{{ if .Description }} ({{ .Description }}){{ end }}{{ end }} |
| **Record streak** | {{ .Report.RecordStreak }} days |
{{- if .NewRecord }}

{{ .NewRecord }}
{{- end }}
{{- if .Milestone }}

{{ .Milestone }}
{{- end }}
{{- if .Footer }}

> {{ .Footer }}
{{- end }}
{{- end }}
`

const historyTemplate = `| # | Date | Streak ended | Severity | Description | Postmortem |
|---|------|--------------|----------|-------------|------------|
{{- range . }}
| {{ .Index }} | {{ .Date }} | {{ streak . }} | {{ cell .Severity }} | {{ cell .Description }} | {{ link .PostmortemURL }} |
{{- end }}
`
