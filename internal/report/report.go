// Package report turns a streak summary into the structured report consumed
// by formatters and the webhook notifier, and renders the Slack payloads for
// the daily check and for a newly reported incident.
package report

import (
	"github.com/boshu2/daysince/internal/incident"
	"github.com/boshu2/daysince/internal/streak"
	"github.com/boshu2/daysince/internal/threshold"
)

// Report is the result of one check run.
type Report struct {
	Date           incident.Date    `json:"date" yaml:"date"`
	Defined        bool             `json:"defined" yaml:"defined"`
	CurrentStreak  int              `json:"current_streak" yaml:"current_streak"`
	RecordStreak   int              `json:"record_streak" yaml:"record_streak"`
	LastIncident   *LastIncident    `json:"last_incident,omitempty" yaml:"last_incident,omitempty"`
	Status         threshold.Status `json:"status" yaml:"status"`
	Milestone      string           `json:"milestone,omitempty" yaml:"milestone,omitempty"`
	NewRecord      bool             `json:"new_record" yaml:"new_record"`
	TotalIncidents int              `json:"total_incidents" yaml:"total_incidents"`
}

// LastIncident is the most recent incident as shown in a report.
type LastIncident struct {
	Date          incident.Date `json:"date" yaml:"date"`
	Description   string        `json:"description" yaml:"description"`
	Severity      string        `json:"severity,omitempty" yaml:"severity,omitempty"`
	PostmortemURL string        `json:"postmortem_url,omitempty" yaml:"postmortem_url,omitempty"`
}

// HasMilestone reports whether a milestone was reached today.
func (r Report) HasMilestone() bool { return r.Milestone != "" }

// New assembles a report from already computed values.
func New(current, record int, status threshold.Status, milestone string, last incident.Record) Report {
	return Report{
		Defined:       true,
		CurrentStreak: current,
		RecordStreak:  record,
		LastIncident: &LastIncident{
			Date:          last.Date,
			Description:   last.Description,
			Severity:      last.Severity,
			PostmortemURL: last.PostmortemURL,
		},
		Status:    status,
		Milestone: milestone,
		NewRecord: current > 0 && current == record,
	}
}

// Build matches the summary against rules and assembles the report. An empty
// history yields an undefined report rather than an error.
func Build(s streak.Summary, rules *threshold.Rules) (Report, error) {
	if !s.Defined {
		return Report{Date: s.Today}, nil
	}

	status, err := rules.Status.Match(s.Current)
	if err != nil {
		return Report{}, err
	}
	milestone, _ := rules.Milestones.Match(s.Current)

	r := New(s.Current, s.Record, status, milestone, s.LastIncident)
	r.Date = s.Today
	r.TotalIncidents = s.Total
	return r, nil
}
