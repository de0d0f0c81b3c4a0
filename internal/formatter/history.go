package formatter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/boshu2/daysince/internal/incident"
)

// HistoryRow is one incident with the streak it ended.
type HistoryRow struct {
	Index         int           `json:"index" yaml:"index"`
	ID            string        `json:"id,omitempty" yaml:"id,omitempty"`
	Date          incident.Date `json:"date" yaml:"date"`
	Description   string        `json:"description" yaml:"description"`
	Severity      string        `json:"severity,omitempty" yaml:"severity,omitempty"`
	PostmortemURL string        `json:"postmortem_url,omitempty" yaml:"postmortem_url,omitempty"`

	// StreakEnded is the number of days since the previous incident; nil
	// for the first record.
	StreakEnded *int `json:"streak_ended_days,omitempty" yaml:"streak_ended_days,omitempty"`
}

// NewHistoryRows lists h oldest first.
func NewHistoryRows(h incident.History) []HistoryRow {
	records := h.Records()
	rows := make([]HistoryRow, len(records))
	for i, r := range records {
		rows[i] = HistoryRow{
			Index:         i + 1,
			ID:            r.ID,
			Date:          r.Date,
			Description:   r.Description,
			Severity:      r.Severity,
			PostmortemURL: r.PostmortemURL,
		}
		if i > 0 {
			n := r.Date.DaysSince(records[i-1].Date)
			rows[i].StreakEnded = &n
		}
	}
	return rows
}

// streakCell renders StreakEnded for tables.
func (r HistoryRow) streakCell() string {
	if r.StreakEnded == nil {
		return "-"
	}
	return strconv.Itoa(*r.StreakEnded)
}

// WriteHistoryTable writes rows as an aligned table.
func WriteHistoryTable(w io.Writer, rows []HistoryRow) error {
	tbl := NewTable(w, "#", "DATE", "STREAK ENDED", "SEVERITY", "DESCRIPTION", "ID")
	tbl.SetMaxWidth(4, 60)
	for _, r := range rows {
		tbl.AddRow(
			strconv.Itoa(r.Index),
			r.Date.String(),
			r.streakCell(),
			orDash(r.Severity),
			orDash(r.Description),
			incident.Record{ID: r.ID}.ShortID(),
		)
	}
	if err := tbl.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d incident(s)\n", len(rows))
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
