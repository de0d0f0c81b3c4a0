// Package streak derives incident-free streaks from an incident history.
//
// A segment runs from one incident to the next. Its length is the number of
// days between the two incident dates, so an incident yesterday and one today
// give a 1-day segment and two incidents on the same day give a 0-day one.
// The trailing segment is open: it ends "today" and its length is the current
// streak. Nothing here is persisted; every value is recomputed per run.
package streak

import (
	"fmt"

	"github.com/boshu2/daysince/internal/incident"
)

// Segment is one incident-free stretch between two incidents, or between the
// last incident and today.
type Segment struct {
	// Start is the day after the incident that opened the segment.
	Start incident.Date `json:"start" yaml:"start"`

	// End is the date of the incident that closed the segment, or today for
	// the open segment.
	End incident.Date `json:"end" yaml:"end"`

	// LengthDays is End minus the opening incident's date.
	LengthDays int `json:"length_days" yaml:"length_days"`

	// Open marks the trailing segment that is still running.
	Open bool `json:"open" yaml:"open"`
}

// Current returns the number of days between the most recent incident and
// today. Zero means the last incident happened today.
func Current(h incident.History, today incident.Date) (int, error) {
	last, ok := h.Last()
	if !ok {
		return 0, ErrNoHistory
	}
	return daysUntil(last.Date, today)
}

// Segments returns one closed segment per consecutive pair of incidents,
// oldest first, followed by the open segment that ends today.
func Segments(h incident.History, today incident.Date) ([]Segment, error) {
	last, ok := h.Last()
	if !ok {
		return nil, ErrNoHistory
	}
	current, err := daysUntil(last.Date, today)
	if err != nil {
		return nil, err
	}

	segments := make([]Segment, 0, h.Len())
	for i := 1; i < h.Len(); i++ {
		prev, next := h.At(i-1).Date, h.At(i).Date
		segments = append(segments, Segment{
			Start:      prev.AddDays(1),
			End:        next,
			LengthDays: next.DaysSince(prev),
		})
	}
	segments = append(segments, Segment{
		Start:      last.Date.AddDays(1),
		End:        today,
		LengthDays: current,
		Open:       true,
	})
	return segments, nil
}

// Record returns the longest segment length, counting the open segment. The
// current streak therefore becomes the record the day it passes the old one.
func Record(h incident.History, today incident.Date) (int, error) {
	segments, err := Segments(h, today)
	if err != nil {
		return 0, err
	}
	best, _ := Longest(segments)
	return best.LengthDays, nil
}

// Longest returns the segment with the greatest length. On ties the earliest
// segment wins. It reports false for an empty slice.
func Longest(segments []Segment) (Segment, bool) {
	if len(segments) == 0 {
		return Segment{}, false
	}
	best := segments[0]
	for _, s := range segments[1:] {
		if s.LengthDays > best.LengthDays {
			best = s
		}
	}
	return best, true
}

func daysUntil(last, today incident.Date) (int, error) {
	if today.Before(last) {
		return 0, fmt.Errorf("%w: today is %s, last incident is %s", ErrInvalidClock, today, last)
	}
	return today.DaysSince(last), nil
}
