package incident

import (
	"slices"
)

// History is the incident list ordered by date ascending. Records sharing a
// date keep their insertion order. A History is a value: Append returns a new
// History and never modifies the receiver.
type History struct {
	records []Record
}

// NewHistory returns a History holding records sorted by date. The sort is
// stable, so same-day records stay in the order given.
func NewHistory(records ...Record) History {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return a.Date.Compare(b.Date)
	})
	return History{records: sorted}
}

// Len returns the number of records.
func (h History) Len() int { return len(h.records) }

// Empty reports whether the history holds no records.
func (h History) Empty() bool { return len(h.records) == 0 }

// Records returns a copy of the ordered records.
func (h History) Records() []Record {
	return slices.Clone(h.records)
}

// At returns the i-th record in date order.
func (h History) At(i int) Record { return h.records[i] }

// Last returns the most recent incident. When several records share the
// latest date, the one inserted last wins.
func (h History) Last() (Record, bool) {
	if len(h.records) == 0 {
		return Record{}, false
	}
	return h.records[len(h.records)-1], true
}

// First returns the oldest incident, which marks the start of tracking.
func (h History) First() (Record, bool) {
	if len(h.records) == 0 {
		return Record{}, false
	}
	return h.records[0], true
}

// Append returns a new History with r inserted after every record dated on
// or before r.Date.
func (h History) Append(r Record) History {
	idx, _ := slices.BinarySearchFunc(h.records, r.Date, func(rec Record, d Date) int {
		if rec.Date.After(d) {
			return 1
		}
		return -1
	})
	out := make([]Record, 0, len(h.records)+1)
	out = append(out, h.records[:idx]...)
	out = append(out, r)
	out = append(out, h.records[idx:]...)
	return History{records: out}
}
