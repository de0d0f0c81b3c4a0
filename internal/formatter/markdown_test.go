package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/boshu2/daysince/internal/incident"
	"github.com/boshu2/daysince/internal/report"
	"github.com/boshu2/daysince/internal/threshold"
)

func d(s string) incident.Date { return incident.MustParseDate(s) }

func sampleHistory() incident.History {
	return incident.NewHistory(
		incident.Record{Date: d("2025-01-01"), Description: "Start of tracking"},
		incident.Record{ID: "3f2c9a10-aaaa-bbbb-cccc-000000000000", Date: d("2025-02-12"), Description: "DB outage", Severity: "Sev2", PostmortemURL: "https://wiki.example.com/pm/42"},
		incident.Record{Date: d("2025-02-20"), Description: "Cert | expiry"},
	)
}

func sampleReport() report.Report {
	r := report.New(30, 42,
		threshold.Status{Emoji: "🌳", Label: "Solid foundation"},
		"☕ 30 Days!",
		incident.Record{Date: d("2025-02-12"), Description: "DB outage"},
	)
	r.Date = d("2025-03-14")
	r.TotalIncidents = 2
	return r
}

func renderer(t *testing.T) *report.Renderer {
	t.Helper()
	r, err := report.NewRenderer(report.Messages{})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestMarkdownFormatter_FormatReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter("Platform").FormatReport(&buf, sampleReport(), renderer(t)); err != nil {
		t.Fatalf("FormatReport: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# 🌳 Days Without Incident | Platform",
		"_As of 2025-03-14_",
		"| **Current streak** | 30 days |",
		"| **Last incident** | 2025-02-12 (DB outage) |",
		"| **Record streak** | 42 days |",
		"🎊 **MILESTONE REACHED!** 🎊\n☕ 30 Days!",
		"> Total incidents recorded: 2 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "NEW RECORD") {
		t.Errorf("30 < 42 should not announce a record:\n%s", out)
	}
}

func TestMarkdownFormatter_FormatReportUndefined(t *testing.T) {
	var buf bytes.Buffer
	rep := report.Report{Date: d("2025-03-14")}
	if err := NewMarkdownFormatter("").FormatReport(&buf, rep, renderer(t)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No incidents are recorded yet.") {
		t.Errorf("undefined report:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Current streak") {
		t.Errorf("undefined report should not print streak fields:\n%s", buf.String())
	}
}

func TestMarkdownFormatter_FormatHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter("").FormatHistory(&buf, NewHistoryRows(sampleHistory())); err != nil {
		t.Fatalf("FormatHistory: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"| 1 | 2025-01-01 | - | - | Start of tracking | - |",
		"| 2 | 2025-02-12 | 42 | Sev2 | DB outage | [postmortem](https://wiki.example.com/pm/42) |",
		`| 3 | 2025-02-20 | 8 | - | Cert \| expiry | - |`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
}
