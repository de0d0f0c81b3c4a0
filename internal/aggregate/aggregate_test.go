package aggregate

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/boshu2/daysince/internal/incident"
	"github.com/boshu2/daysince/internal/streak"
)

func d(s string) incident.Date { return incident.MustParseDate(s) }

func history(dates ...string) incident.History {
	records := make([]incident.Record, 0, len(dates))
	for _, s := range dates {
		records = append(records, incident.Record{Date: d(s)})
	}
	return incident.NewHistory(records...)
}

func TestMonthlyIncidentCounts(t *testing.T) {
	counts := MonthlyIncidentCounts(history("2025-01-05", "2025-01-20", "2025-02-01"))

	want := map[MonthKey]int{
		{Year: 2025, Month: time.January}:  2,
		{Year: 2025, Month: time.February}: 1,
	}
	if len(counts) != len(want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
	for k, n := range want {
		if counts[k] != n {
			t.Errorf("counts[%s] = %d, want %d", k, counts[k], n)
		}
	}

	worst, ok := WorstMonth(counts)
	if !ok {
		t.Fatal("WorstMonth reported no month")
	}
	if worst.Month.String() != "2025-01" || worst.Count != 2 {
		t.Errorf("WorstMonth = %+v, want 2025-01 with 2", worst)
	}
}

func TestWorstMonth_TiesPickMostRecent(t *testing.T) {
	counts := MonthlyIncidentCounts(history(
		"2024-11-02", "2024-11-03",
		"2025-03-01", "2025-03-09",
		"2025-01-01",
	))
	worst, _ := WorstMonth(counts)
	if worst.Month.String() != "2025-03" {
		t.Errorf("WorstMonth = %s, want most recent tied month 2025-03", worst.Month)
	}

	if _, ok := WorstMonth(nil); ok {
		t.Error("WorstMonth(nil) should report false")
	}
}

func TestChronological(t *testing.T) {
	counts := MonthlyIncidentCounts(history("2025-02-01", "2024-12-31", "2025-01-15"))
	got := Chronological(counts)
	want := []string{"2024-12", "2025-01", "2025-02"}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Month.String() != want[i] {
			t.Errorf("bucket %d = %s, want %s", i, got[i].Month, want[i])
		}
	}
}

func TestMonthKey_JSONMapKey(t *testing.T) {
	data, err := json.Marshal(MonthlyIncidentCounts(history("2025-01-05")))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"2025-01":1}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestBestStreakGroup(t *testing.T) {
	h := history("2025-01-01", "2025-01-11", "2025-01-21", "2025-01-25")
	segs, err := streak.Segments(h, d("2025-01-30"))
	if err != nil {
		t.Fatal(err)
	}
	best, ok := BestStreakGroup(segs)
	if !ok {
		t.Fatal("no best group")
	}
	if best.LengthDays != 10 || !best.End.Equal(d("2025-01-11")) {
		t.Errorf("best = %+v, want the first 10-day segment", best)
	}
}

func TestDailyStreaks(t *testing.T) {
	h := history("2025-01-01", "2025-01-04", "2025-01-04")
	points, err := DailyStreaks(h, d("2025-01-06"))
	if err != nil {
		t.Fatalf("DailyStreaks: %v", err)
	}
	want := []int{0, 1, 2, 0, 1, 2}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i, w := range want {
		if points[i].Streak != w {
			t.Errorf("day %s streak = %d, want %d", points[i].Date, points[i].Streak, w)
		}
	}
	if !points[5].Date.Equal(d("2025-01-06")) {
		t.Errorf("last point = %s, want today", points[5].Date)
	}
}

func TestDailyStreaks_Errors(t *testing.T) {
	if _, err := DailyStreaks(incident.History{}, d("2025-01-01")); !errors.Is(err, streak.ErrNoHistory) {
		t.Errorf("empty history: got %v", err)
	}
	if _, err := DailyStreaks(history("2025-01-05"), d("2025-01-01")); !errors.Is(err, streak.ErrInvalidClock) {
		t.Errorf("clock before last incident: got %v", err)
	}
}

func TestSegmentDays(t *testing.T) {
	closed := streak.Segment{Start: d("2025-01-02"), End: d("2025-01-11"), LengthDays: 10}
	from, to, ok := SegmentDays(closed)
	if !ok || !from.Equal(d("2025-01-02")) || !to.Equal(d("2025-01-10")) {
		t.Errorf("closed: %s..%s ok=%v", from, to, ok)
	}

	open := streak.Segment{Start: d("2025-01-12"), End: d("2025-01-15"), LengthDays: 4, Open: true}
	from, to, ok = SegmentDays(open)
	if !ok || !from.Equal(d("2025-01-12")) || !to.Equal(d("2025-01-15")) {
		t.Errorf("open: %s..%s ok=%v", from, to, ok)
	}

	adjacent := streak.Segment{Start: d("2025-01-12"), End: d("2025-01-12"), LengthDays: 1}
	if _, _, ok := SegmentDays(adjacent); ok {
		t.Error("a 1-day closed segment has no positive-streak days")
	}
}
