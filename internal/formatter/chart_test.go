package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/boshu2/daysince/internal/aggregate"
	"github.com/boshu2/daysince/internal/report"
	"github.com/boshu2/daysince/internal/streak"
)

func TestResampleData(t *testing.T) {
	data := []float64{0, 2, 4, 6}
	marks := []bool{false, false, false, true}

	got, hot := resampleData(data, marks, 2)
	if len(got) != 2 || got[0] != 1 || got[1] != 5 {
		t.Errorf("resampled = %v, want [1 5]", got)
	}
	if hot[0] || !hot[1] {
		t.Errorf("marks = %v, want [false true]", hot)
	}

	same, _ := resampleData(data, marks, 10)
	if len(same) != 4 {
		t.Errorf("short data should be returned as is, got %d values", len(same))
	}
}

func TestStreakChart(t *testing.T) {
	h := sampleHistory()
	today := d("2025-03-14")
	points, err := aggregate.DailyStreaks(h, today)
	if err != nil {
		t.Fatal(err)
	}
	segs, err := streak.Segments(h, today)
	if err != nil {
		t.Fatal(err)
	}
	best, _ := aggregate.BestStreakGroup(segs)

	out := StreakChart(points, best, 60, 6)

	lines := strings.Split(out, "\n")
	// title, 6 rows, axis, dates
	if len(lines) != 9 {
		t.Fatalf("got %d lines, want 9:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "best: 42 days (2025-01-02 to 2025-02-11)") {
		t.Errorf("title = %q", lines[0])
	}
	if !strings.Contains(lines[8], "2025-01-01") || !strings.Contains(lines[8], "2025-03-14") {
		t.Errorf("date axis = %q", lines[8])
	}
	if !strings.Contains(out, "█") {
		t.Error("chart has no bars")
	}
}

func TestStreakChart_Empty(t *testing.T) {
	if out := StreakChart(nil, streak.Segment{}, 40, 5); !strings.Contains(out, "no incident history") {
		t.Errorf("empty chart = %q", out)
	}
}

func TestMonthlyChart(t *testing.T) {
	counts := aggregate.MonthlyIncidentCounts(sampleHistory())
	worst, _ := aggregate.WorstMonth(counts)

	out := MonthlyChart(aggregate.Chronological(counts), worst, 50)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "2025-01 │") || strings.Contains(lines[1], "worst") {
		t.Errorf("January line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "2025-02") || !strings.HasSuffix(lines[2], "◀ worst") {
		t.Errorf("February should be the worst month: %q", lines[2])
	}
	// February has twice January's incidents
	if strings.Count(lines[2], "█") != 2*strings.Count(lines[1], "█") {
		t.Errorf("bars not proportional:\n%s", out)
	}
}

func TestReportCard(t *testing.T) {
	var buf bytes.Buffer
	if err := ReportCard(&buf, sampleReport(), renderer(t), ""); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"🌳 Days Without Incident",
		"30 days",
		"Solid foundation",
		"2025-02-12  DB outage",
		"42 days",
		"MILESTONE REACHED!",
		"Total incidents recorded: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "*MILESTONE") {
		t.Errorf("mrkdwn markers should be stripped:\n%s", out)
	}
}

func TestReportCard_Undefined(t *testing.T) {
	var buf bytes.Buffer
	if err := ReportCard(&buf, report.Report{Date: d("2025-03-14")}, renderer(t), "Platform"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "daysince init") {
		t.Errorf("undefined card:\n%s", buf.String())
	}
}

func TestPlural(t *testing.T) {
	if plural(1, "day") != "1 day" || plural(2, "day") != "2 days" || plural(0, "day") != "0 days" {
		t.Error("plural")
	}
}
