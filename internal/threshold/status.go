// Package threshold maps a streak length to a status label and to the
// milestone message due on that day.
package threshold

import (
	"fmt"
	"slices"
)

// Range assigns a status to every streak length in [MinDays, MaxDays].
// A nil MaxDays leaves the range open-ended.
type Range struct {
	MinDays int
	MaxDays *int
	Emoji   string
	Label   string
}

// Contains reports whether days falls inside the range.
func (r Range) Contains(days int) bool {
	return days >= r.MinDays && (r.MaxDays == nil || days <= *r.MaxDays)
}

func (r Range) String() string {
	if r.MaxDays == nil {
		return fmt.Sprintf("%d+", r.MinDays)
	}
	return fmt.Sprintf("%d-%d", r.MinDays, *r.MaxDays)
}

// Status is the result of matching a streak against a Table.
type Status struct {
	Emoji string `json:"emoji" yaml:"emoji"`
	Label string `json:"label" yaml:"label"`
}

func (s Status) String() string {
	if s.Emoji == "" {
		return s.Label
	}
	return s.Emoji + " " + s.Label
}

// Table is a validated status table: sorted, contiguous from day 0, with no
// overlaps and an open-ended last range. Build it with NewTable.
type Table struct {
	ranges []Range
}

// NewTable sorts and validates ranges. A gap in coverage yields
// ErrNoMatchingThreshold; overlapping ranges yield ErrOverlappingThresholds.
func NewTable(ranges []Range) (*Table, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("%w: status table is empty", ErrNoMatchingThreshold)
	}

	sorted := slices.Clone(ranges)
	slices.SortStableFunc(sorted, func(a, b Range) int {
		return a.MinDays - b.MinDays
	})

	for i, r := range sorted {
		if r.Label == "" {
			return nil, fmt.Errorf("status range %s: label is required", r)
		}
		if r.MaxDays != nil && *r.MaxDays < r.MinDays {
			return nil, fmt.Errorf("status range %s: max_days is below min_days", r)
		}
		if i == 0 {
			if r.MinDays != 0 {
				return nil, fmt.Errorf("%w: days 0-%d are not covered", ErrNoMatchingThreshold, r.MinDays-1)
			}
			continue
		}
		prev := sorted[i-1]
		if prev.MaxDays == nil || r.MinDays <= *prev.MaxDays {
			return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingThresholds, prev, r)
		}
		if r.MinDays > *prev.MaxDays+1 {
			return nil, fmt.Errorf("%w: days %d-%d are not covered", ErrNoMatchingThreshold, *prev.MaxDays+1, r.MinDays-1)
		}
	}

	if last := sorted[len(sorted)-1]; last.MaxDays != nil {
		return nil, fmt.Errorf("%w: days above %d are not covered", ErrNoMatchingThreshold, *last.MaxDays)
	}

	return &Table{ranges: sorted}, nil
}

// Ranges returns the validated ranges in order.
func (t *Table) Ranges() []Range {
	return slices.Clone(t.ranges)
}

// Match returns the status for days.
func (t *Table) Match(days int) (Status, error) {
	return MatchStatus(days, t.ranges)
}

// MatchStatus selects the single range containing days. It does not assume
// ranges were validated: no match yields ErrNoMatchingThreshold and more than
// one yields ErrOverlappingThresholds.
func MatchStatus(days int, ranges []Range) (Status, error) {
	if days < 0 {
		return Status{}, fmt.Errorf("%w: negative streak %d", ErrNoMatchingThreshold, days)
	}

	var (
		found Range
		n     int
	)
	for _, r := range ranges {
		if r.Contains(days) {
			if n == 1 {
				return Status{}, fmt.Errorf("%w: %s and %s both match %d days", ErrOverlappingThresholds, found, r, days)
			}
			found = r
			n++
		}
	}
	if n == 0 {
		return Status{}, fmt.Errorf("%w: %d days", ErrNoMatchingThreshold, days)
	}
	return Status{Emoji: found.Emoji, Label: found.Label}, nil
}

// Days returns a pointer to n, for building ranges in code.
func Days(n int) *int { return &n }
