package threshold

import (
	"fmt"
	"strings"
	"text/template"
)

// DefaultRecurringMessage is used when a recurring interval is configured
// without a message template.
const DefaultRecurringMessage = "🏆 {{.Days}} Days! Amazing streak! 🏆"

// Milestones holds the one-off celebration messages and the optional
// recurring milestone.
type Milestones struct {
	exact map[int]string

	// interval fires a recurring milestone every interval days (0 = off).
	interval int
	// after suppresses recurring milestones up to and including this day.
	after     int
	recurring *template.Template
}

// MilestoneSpec is the unvalidated form of Milestones.
type MilestoneSpec struct {
	Days                  map[int]string
	RecurringIntervalDays int
	RecurringAfterDays    int
	RecurringMessage      string
}

// NewMilestones validates spec and parses the recurring message template.
func NewMilestones(spec MilestoneSpec) (*Milestones, error) {
	m := &Milestones{
		exact:    make(map[int]string, len(spec.Days)),
		interval: spec.RecurringIntervalDays,
		after:    spec.RecurringAfterDays,
	}

	for days, msg := range spec.Days {
		if days <= 0 {
			return nil, fmt.Errorf("%w: milestone day %d must be positive", ErrInvalidMilestone, days)
		}
		if strings.TrimSpace(msg) == "" {
			return nil, fmt.Errorf("%w: milestone day %d has no message", ErrInvalidMilestone, days)
		}
		m.exact[days] = msg
	}

	if spec.RecurringIntervalDays < 0 {
		return nil, fmt.Errorf("%w: recurring interval %d is negative", ErrInvalidMilestone, spec.RecurringIntervalDays)
	}
	if spec.RecurringAfterDays < 0 {
		return nil, fmt.Errorf("%w: recurring start %d is negative", ErrInvalidMilestone, spec.RecurringAfterDays)
	}
	if spec.RecurringIntervalDays == 0 {
		return m, nil
	}

	text := spec.RecurringMessage
	if strings.TrimSpace(text) == "" {
		text = DefaultRecurringMessage
	}
	tmpl, err := template.New("recurring").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: recurring message: %v", ErrInvalidMilestone, err)
	}
	m.recurring = tmpl
	return m, nil
}

// Match returns the milestone message for days. See MatchMilestone.
func (m *Milestones) Match(days int) (string, bool) {
	return MatchMilestone(days, m)
}

// MatchMilestone returns the message for a milestone reached exactly on
// days. An explicit milestone wins over the recurring one. Milestones are
// events: day 31 does not repeat the day-30 message.
func MatchMilestone(days int, m *Milestones) (string, bool) {
	if m == nil || days <= 0 {
		return "", false
	}
	if msg, ok := m.exact[days]; ok {
		return msg, true
	}
	if m.interval > 0 && days > m.after && days%m.interval == 0 {
		return m.renderRecurring(days), true
	}
	return "", false
}

func (m *Milestones) renderRecurring(days int) string {
	var sb strings.Builder
	if err := m.recurring.Execute(&sb, struct{ Days int }{Days: days}); err != nil {
		return fmt.Sprintf("%d Days!", days)
	}
	return sb.String()
}

// Rules is the validated threshold configuration for one run.
type Rules struct {
	Status     *Table
	Milestones *Milestones
}
