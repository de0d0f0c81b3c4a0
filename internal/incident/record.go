// Package incident models the incident history that the days-since counter is
// derived from: calendar dates, incident records and the ordered history.
package incident

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Record is a single production incident.
type Record struct {
	// ID identifies records created by the CLI. Hand-written records may omit it.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Date is the day the incident occurred.
	Date Date `json:"date" yaml:"date"`

	// Description is a free-text summary.
	Description string `json:"description" yaml:"description"`

	// Severity is an optional classification such as "Sev1".
	Severity string `json:"severity,omitempty" yaml:"severity,omitempty"`

	// PostmortemURL links to the postmortem document, if any.
	PostmortemURL string `json:"postmortem_url,omitempty" yaml:"postmortem_url,omitempty"`
}

// NewRecord builds a record for an incident reported on today. The incident
// date may not be later than today.
func NewRecord(date Date, description, severity, postmortemURL string, today Date) (Record, error) {
	if date.IsZero() {
		date = today
	}
	if date.After(today) {
		return Record{}, fmt.Errorf("%w: %s is after %s", ErrFutureIncident, date, today)
	}
	return Record{
		ID:            uuid.NewString(),
		Date:          date,
		Description:   strings.TrimSpace(description),
		Severity:      strings.TrimSpace(severity),
		PostmortemURL: strings.TrimSpace(postmortemURL),
	}, nil
}

// ShortID returns the first 8 characters of the ID, or "-" when there is none.
func (r Record) ShortID() string {
	switch {
	case r.ID == "":
		return "-"
	case len(r.ID) > 8:
		return r.ID[:8]
	default:
		return r.ID
	}
}

// recordJSON mirrors Record with the legacy postmortem_link key.
type recordJSON struct {
	ID             string `json:"id,omitempty"`
	Date           Date   `json:"date"`
	Description    string `json:"description"`
	Severity       string `json:"severity,omitempty"`
	PostmortemURL  string `json:"postmortem_url,omitempty"`
	PostmortemLink string `json:"postmortem_link,omitempty"`
}

// UnmarshalJSON accepts the older postmortem_link key as an alias for
// postmortem_url.
func (r *Record) UnmarshalJSON(b []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Date.IsZero() {
		return fmt.Errorf("missing date")
	}
	*r = Record{
		ID:            raw.ID,
		Date:          raw.Date,
		Description:   raw.Description,
		Severity:      raw.Severity,
		PostmortemURL: raw.PostmortemURL,
	}
	if r.PostmortemURL == "" {
		r.PostmortemURL = raw.PostmortemLink
	}
	return nil
}
