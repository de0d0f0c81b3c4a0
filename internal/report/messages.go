package report

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// Messages holds the user-facing texts. Footer, ResetBody and Title are
// text/template strings; Footer and Title see the Report, ResetBody sees the
// ResetNotice.
type Messages struct {
	Title           string
	NoIncidents     string
	NewRecord       string
	MilestoneHeader string
	Footer          string
	ResetTitle      string
	ResetBody       string
	ResetFooter     string
}

// DefaultMessages returns the built-in texts.
func DefaultMessages() Messages {
	return Messages{
		Title:           "Days Without Incident",
		NoIncidents:     "None recorded",
		NewRecord:       "🎊 *NEW RECORD!* 🎊\nThis is now the longest streak in company history!",
		MilestoneHeader: "🎊 *MILESTONE REACHED!* 🎊",
		Footer:          "Total incidents recorded: {{.TotalIncidents}} | Every day without an incident is a win! 💪",
		ResetTitle:      "🚨 Incident Reported",
		ResetBody:       "An incident has been reported. Our streak of {{.StreakEnded}} days has ended, but we're starting fresh!",
		ResetFooter:     "💪 *Remember:* Incidents are learning opportunities. Let's use this to make our systems even stronger!",
	}
}

// withDefaults fills empty fields from DefaultMessages.
func (m Messages) withDefaults() Messages {
	d := DefaultMessages()
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&m.Title, d.Title)
	fill(&m.NoIncidents, d.NoIncidents)
	fill(&m.NewRecord, d.NewRecord)
	fill(&m.MilestoneHeader, d.MilestoneHeader)
	fill(&m.Footer, d.Footer)
	fill(&m.ResetTitle, d.ResetTitle)
	fill(&m.ResetBody, d.ResetBody)
	fill(&m.ResetFooter, d.ResetFooter)
	return m
}

// Renderer renders reports with a parsed set of messages.
type Renderer struct {
	msgs   Messages
	title  *template.Template
	footer *template.Template
	reset  *template.Template
}

// NewRenderer parses the message templates. Empty messages fall back to
// the defaults.
func NewRenderer(msgs Messages) (*Renderer, error) {
	msgs = msgs.withDefaults()
	r := &Renderer{msgs: msgs}

	var errs []error
	parse := func(name, text string) *template.Template {
		tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			errs = append(errs, fmt.Errorf("messages.%s: %w", name, err))
		}
		return tmpl
	}
	r.title = parse("title", msgs.Title)
	r.footer = parse("footer", msgs.Footer)
	r.reset = parse("reset_body", msgs.ResetBody)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	// Execute once against zero values so field typos fail here, not mid-run.
	if _, err := r.exec(r.title, Report{}); err != nil {
		return nil, err
	}
	if _, err := r.exec(r.footer, Report{}); err != nil {
		return nil, err
	}
	if _, err := r.exec(r.reset, ResetNotice{}); err != nil {
		return nil, err
	}
	return r, nil
}

// Messages returns the effective messages.
func (r *Renderer) Messages() Messages { return r.msgs }

func (r *Renderer) exec(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("messages.%s: %w", t.Name(), err)
	}
	return sb.String(), nil
}

// mustExec renders a template already proven against the data type.
func (r *Renderer) mustExec(t *template.Template, data any) string {
	s, err := r.exec(t, data)
	if err != nil {
		return t.Root.String()
	}
	return s
}

// Title renders the report title.
func (r *Renderer) Title(rep Report) string { return r.mustExec(r.title, rep) }

// Footer renders the report footer.
func (r *Renderer) Footer(rep Report) string { return r.mustExec(r.footer, rep) }

// ResetBody renders the sentence announcing a reset.
func (r *Renderer) ResetBody(n ResetNotice) string { return r.mustExec(r.reset, n) }

// LastIncidentDate returns the last incident date or the no-incidents text.
func (r *Renderer) LastIncidentDate(rep Report) string {
	if rep.LastIncident == nil {
		return r.msgs.NoIncidents
	}
	return rep.LastIncident.Date.String()
}
