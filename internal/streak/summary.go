package streak

import (
	"errors"

	"github.com/boshu2/daysince/internal/incident"
)

// Summary bundles everything the report path needs from one history.
type Summary struct {
	// Defined is false for an empty history; every other field is then zero.
	Defined bool

	Today   incident.Date
	Current int
	Record  int

	// RecordSegment is the earliest segment holding the record length.
	RecordSegment Segment

	Segments     []Segment
	LastIncident incident.Record
	Total        int
}

// NewRecord reports whether the running streak is the longest ever seen.
// A streak of zero days never counts.
func (s Summary) NewRecord() bool {
	return s.Defined && s.Current > 0 && s.Current == s.Record
}

// Analyze computes the streak summary of h as of today. An empty history is
// not an error: it yields a Summary with Defined set to false.
func Analyze(h incident.History, today incident.Date) (Summary, error) {
	segments, err := Segments(h, today)
	if errors.Is(err, ErrNoHistory) {
		return Summary{Today: today}, nil
	}
	if err != nil {
		return Summary{}, err
	}

	last, _ := h.Last()
	open := segments[len(segments)-1]
	best, _ := Longest(segments)

	return Summary{
		Defined:       true,
		Today:         today,
		Current:       open.LengthDays,
		Record:        best.LengthDays,
		RecordSegment: best,
		Segments:      segments,
		LastIncident:  last,
		Total:         h.Len(),
	}, nil
}
