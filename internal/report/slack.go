package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/boshu2/daysince/internal/incident"
)

// Payload is a Slack incoming-webhook message using Block Kit.
type Payload struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks"`
}

// Block is one Block Kit layout block.
type Block struct {
	Type     string       `json:"type"`
	Text     *TextObject  `json:"text,omitempty"`
	Fields   []TextObject `json:"fields,omitempty"`
	Elements []TextObject `json:"elements,omitempty"`
}

// TextObject is a plain_text or mrkdwn text object.
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func header(text string) Block {
	return Block{Type: "header", Text: &TextObject{Type: "plain_text", Text: text}}
}

func section(text string) Block {
	return Block{Type: "section", Text: &TextObject{Type: "mrkdwn", Text: text}}
}

func fields(texts ...string) Block {
	b := Block{Type: "section"}
	for _, t := range texts {
		b.Fields = append(b.Fields, TextObject{Type: "mrkdwn", Text: t})
	}
	return b
}

func contextBlock(text string) Block {
	return Block{Type: "context", Elements: []TextObject{{Type: "mrkdwn", Text: text}}}
}

func field(label, value string) string {
	return fmt.Sprintf("*%s:*\n%s", label, value)
}

// CheckPayload renders the daily status message.
func (r *Renderer) CheckPayload(rep Report, team string) Payload {
	title := r.Title(rep)
	if !rep.Defined {
		return Payload{
			Text: title + ": no incident history",
			Blocks: []Block{
				header(title),
				section("No incidents are recorded yet, so there is no streak to report. Run `daysince init` to start tracking."),
			},
		}
	}

	if rep.Status.Emoji != "" {
		title = rep.Status.Emoji + " " + title
	}
	if team != "" {
		title += " | " + team
	}

	p := Payload{
		Text: fmt.Sprintf("%s: %d", r.Title(rep), rep.CurrentStreak),
		Blocks: []Block{
			header(title),
			fields(
				field("Current Streak", fmt.Sprintf("%d days", rep.CurrentStreak)),
				field("Status", rep.Status.Label),
				field("Last Incident", r.LastIncidentDate(rep)),
				field("Record Streak", fmt.Sprintf("%d days", rep.RecordStreak)),
			),
		},
	}
	if rep.NewRecord {
		p.Blocks = append(p.Blocks, section(r.msgs.NewRecord))
	}
	if rep.HasMilestone() {
		p.Blocks = append(p.Blocks, section(r.msgs.MilestoneHeader+"\n"+rep.Milestone))
	}
	if rep.CurrentStreak > 0 {
		p.Blocks = append(p.Blocks, contextBlock(r.Footer(rep)))
	}
	return p
}

// ResetNotice describes a newly recorded incident.
type ResetNotice struct {
	Incident incident.Record
	// StreakEnded is the streak the incident interrupted, in days.
	StreakEnded    int
	TotalIncidents int
}

// NewResetNotice computes the interrupted streak: the days between the
// previous last incident and the new one, 0 when the new incident is not
// later than it or there was no previous incident.
func NewResetNotice(before incident.History, added incident.Record) ResetNotice {
	n := ResetNotice{Incident: added, TotalIncidents: before.Len() + 1}
	if last, ok := before.Last(); ok && added.Date.After(last.Date) {
		n.StreakEnded = added.Date.DaysSince(last.Date)
	}
	return n
}

// ResetPayload renders the incident announcement.
func (r *Renderer) ResetPayload(n ResetNotice) Payload {
	severity := n.Incident.Severity
	if severity == "" {
		severity = "Not specified"
	}

	p := Payload{
		Text: "Incident Reported - Counter Reset",
		Blocks: []Block{
			header(r.msgs.ResetTitle),
			section(r.ResetBody(n)),
			fields(
				field("Incident Date", n.Incident.Date.String()),
				field("Days Lost", fmt.Sprintf("%d days", n.StreakEnded)),
				field("Total Incidents", fmt.Sprintf("%d recorded", n.TotalIncidents)),
				field("Severity", severity),
			),
		},
	}
	if n.Incident.Description != "" {
		p.Blocks = append(p.Blocks, section(field("Description", n.Incident.Description)))
	}
	if n.Incident.PostmortemURL != "" {
		p.Blocks = append(p.Blocks, section(field("Postmortem", "<"+n.Incident.PostmortemURL+"|View Postmortem>")))
	}
	p.Blocks = append(p.Blocks, Block{Type: "divider"}, section(r.msgs.ResetFooter))
	return p
}

// WritePlain prints a payload the way a reader would scan it in a terminal,
// one line per text element. Used for dry runs.
func WritePlain(w io.Writer, p Payload) error {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&sb, "Text: %s\n", p.Text)
	for _, b := range p.Blocks {
		switch b.Type {
		case "header":
			fmt.Fprintf(&sb, "Header: %s\n", b.Text.Text)
		case "section":
			if b.Text != nil {
				fmt.Fprintf(&sb, "Section: %s\n", b.Text.Text)
			}
			for _, f := range b.Fields {
				fmt.Fprintf(&sb, "Field: %s\n", f.Text)
			}
		case "context":
			for _, e := range b.Elements {
				fmt.Fprintf(&sb, "Context: %s\n", e.Text)
			}
		case "divider":
			sb.WriteString("---\n")
		}
	}
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
