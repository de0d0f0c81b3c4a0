// Package aggregate groups the incident history for reports and charts:
// incidents per calendar month, the best streak and a per-day streak series.
package aggregate

import (
	"fmt"
	"slices"
	"time"

	"github.com/boshu2/daysince/internal/incident"
	"github.com/boshu2/daysince/internal/streak"
)

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Compare orders months chronologically.
func (k MonthKey) Compare(o MonthKey) int {
	if k.Year != o.Year {
		return k.Year - o.Year
	}
	return int(k.Month) - int(o.Month)
}

// MarshalText renders the key as YYYY-MM so it can be a JSON map key.
func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// MonthOf returns the month a date falls in.
func MonthOf(d incident.Date) MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Month()}
}

// MonthCount is one bucket of MonthlyIncidentCounts.
type MonthCount struct {
	Month MonthKey `json:"month" yaml:"month"`
	Count int      `json:"count" yaml:"count"`
}

// MonthlyIncidentCounts counts incidents per calendar month of their date.
// Months without incidents are absent.
func MonthlyIncidentCounts(h incident.History) map[MonthKey]int {
	counts := make(map[MonthKey]int)
	for _, r := range h.Records() {
		counts[MonthOf(r.Date)]++
	}
	return counts
}

// Chronological returns the buckets sorted oldest month first.
func Chronological(counts map[MonthKey]int) []MonthCount {
	out := make([]MonthCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, MonthCount{Month: k, Count: n})
	}
	slices.SortFunc(out, func(a, b MonthCount) int {
		return a.Month.Compare(b.Month)
	})
	return out
}

// WorstMonth returns the month with the most incidents. Among tied months
// the most recent one is returned.
func WorstMonth(counts map[MonthKey]int) (MonthCount, bool) {
	var (
		worst MonthCount
		found bool
	)
	for k, n := range counts {
		if !found || n > worst.Count || (n == worst.Count && k.Compare(worst.Month) > 0) {
			worst = MonthCount{Month: k, Count: n}
			found = true
		}
	}
	return worst, found
}

// BestStreakGroup returns the longest segment, earliest on ties. Unlike
// streak.Record it keeps the dates so charts can annotate the period.
func BestStreakGroup(segments []streak.Segment) (streak.Segment, bool) {
	return streak.Longest(segments)
}

// DayPoint is the streak value on one calendar day.
type DayPoint struct {
	Date   incident.Date `json:"date" yaml:"date"`
	Streak int           `json:"streak" yaml:"streak"`
}

// DailyStreaks returns the streak for every day from the first incident to
// today inclusive. Days with an incident are 0.
func DailyStreaks(h incident.History, today incident.Date) ([]DayPoint, error) {
	first, ok := h.First()
	if !ok {
		return nil, streak.ErrNoHistory
	}
	if _, err := streak.Current(h, today); err != nil {
		return nil, err
	}

	records := h.Records()
	points := make([]DayPoint, 0, today.DaysSince(first.Date)+1)
	last := first.Date
	next := 0
	for day := first.Date; !day.After(today); day = day.AddDays(1) {
		for next < len(records) && !records[next].Date.After(day) {
			last = records[next].Date
			next++
		}
		points = append(points, DayPoint{Date: day, Streak: day.DaysSince(last)})
	}
	return points, nil
}

// SegmentDays returns the first and last day of seg that carry a positive
// streak in the DailyStreaks series. It reports false for a zero-length
// segment.
func SegmentDays(seg streak.Segment) (from, to incident.Date, ok bool) {
	to = seg.End
	if !seg.Open {
		to = seg.End.AddDays(-1)
	}
	if to.Before(seg.Start) {
		return incident.Date{}, incident.Date{}, false
	}
	return seg.Start, to, true
}
