package incident

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-05-14")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2025-05-14" {
		t.Errorf("String() = %q, want 2025-05-14", d.String())
	}

	for _, bad := range []string{"", "2025-13-01", "14/05/2025", "2025-05-14T10:00:00Z"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestDaysSince(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want int
	}{
		{"same day", "2025-06-25", "2025-06-25", 0},
		{"scenario from docs", "2025-05-14", "2025-06-25", 42},
		{"across leap day", "2024-02-28", "2024-03-01", 2},
		{"across year", "2024-12-31", "2025-01-01", 1},
		{"negative", "2025-06-25", "2025-06-20", -5},
		{"mistyped year", "0202-05-14", "2025-06-25", 665880},
		{"first representable day", "0001-01-01", "2025-06-25", 739426},
		{"far past negative", "2025-06-25", "0202-05-14", -665880},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParseDate(tt.to).DaysSince(MustParseDate(tt.from))
			if got != tt.want {
				t.Errorf("DaysSince = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToday_UsesLocalCalendar(t *testing.T) {
	saved := time.Local
	t.Cleanup(func() { time.Local = saved })

	// UTC+14 and UTC-12 are on different calendar days for most of the day,
	// so at least one of them disagrees with UTC.
	for _, zone := range []*time.Location{
		time.FixedZone("UTC+14", 14*60*60),
		time.FixedZone("UTC-12", -12*60*60),
	} {
		time.Local = zone
		want := DateOf(time.Now().In(zone))
		if got := Today(); !got.Equal(want) {
			t.Errorf("Today() in %s = %s, want %s", zone, got, want)
		}
	}
}

func TestAddDays(t *testing.T) {
	got := MustParseDate("2025-01-31").AddDays(1)
	if got.String() != "2025-02-01" {
		t.Errorf("AddDays = %s, want 2025-02-01", got)
	}
}

func TestNewRecord_RejectsFutureDate(t *testing.T) {
	today := MustParseDate("2025-06-25")
	_, err := NewRecord(MustParseDate("2025-06-26"), "db outage", "", "", today)
	if !errors.Is(err, ErrFutureIncident) {
		t.Fatalf("expected ErrFutureIncident, got %v", err)
	}
}

func TestNewRecord_DefaultsToToday(t *testing.T) {
	today := MustParseDate("2025-06-25")
	r, err := NewRecord(Date{}, "  api 500s ", "Sev2", "", today)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if !r.Date.Equal(today) {
		t.Errorf("Date = %s, want %s", r.Date, today)
	}
	if r.Description != "api 500s" {
		t.Errorf("Description = %q, want trimmed", r.Description)
	}
	if r.ID == "" {
		t.Error("expected an ID to be assigned")
	}
	if len(r.ShortID()) != 8 {
		t.Errorf("ShortID() = %q, want 8 chars", r.ShortID())
	}
}

func TestRecord_UnmarshalLegacyPostmortemLink(t *testing.T) {
	var r Record
	raw := `{"date":"2025-03-01","description":"x","postmortem_link":"https://wiki/pm-1","severity":""}`
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r.PostmortemURL != "https://wiki/pm-1" {
		t.Errorf("PostmortemURL = %q, want legacy link", r.PostmortemURL)
	}
}

func TestRecord_UnmarshalMissingDate(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"description":"x"}`), &r); err == nil {
		t.Fatal("expected error for missing date")
	}
}

func TestRecord_MarshalOmitsEmptyOptionals(t *testing.T) {
	r := Record{Date: MustParseDate("2025-03-01"), Description: "x"}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"date":"2025-03-01","description":"x"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestNewHistory_SortsStable(t *testing.T) {
	h := NewHistory(
		Record{Date: MustParseDate("2025-03-01"), Description: "b"},
		Record{Date: MustParseDate("2025-01-01"), Description: "a"},
		Record{Date: MustParseDate("2025-03-01"), Description: "c"},
	)
	var got []string
	for _, r := range h.Records() {
		got = append(got, r.Description)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	last, ok := h.Last()
	if !ok || last.Description != "c" {
		t.Errorf("Last() = %+v, want the later-inserted same-day record", last)
	}
}

func TestHistory_AppendIsPure(t *testing.T) {
	h := NewHistory(
		Record{Date: MustParseDate("2025-01-01"), Description: "a"},
		Record{Date: MustParseDate("2025-03-01"), Description: "c"},
	)
	next := h.Append(Record{Date: MustParseDate("2025-02-01"), Description: "b"})

	if h.Len() != 2 {
		t.Errorf("original history mutated: len %d", h.Len())
	}
	if next.Len() != 3 {
		t.Fatalf("new history len = %d, want 3", next.Len())
	}
	if next.At(1).Description != "b" {
		t.Errorf("inserted at wrong position: %+v", next.Records())
	}
}

func TestHistory_AppendSameDayGoesLast(t *testing.T) {
	h := NewHistory(
		Record{Date: MustParseDate("2025-01-01"), Description: "a"},
		Record{Date: MustParseDate("2025-01-01"), Description: "b"},
		Record{Date: MustParseDate("2025-02-01"), Description: "d"},
	)
	next := h.Append(Record{Date: MustParseDate("2025-01-01"), Description: "c"})
	if next.At(2).Description != "c" || next.At(3).Description != "d" {
		t.Errorf("same-day append order wrong: %+v", next.Records())
	}
}

func TestHistory_Empty(t *testing.T) {
	var h History
	if !h.Empty() {
		t.Error("zero History should be empty")
	}
	if _, ok := h.Last(); ok {
		t.Error("Last() on empty history should report false")
	}
	if _, ok := h.First(); ok {
		t.Error("First() on empty history should report false")
	}
}
