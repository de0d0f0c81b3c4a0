package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/boshu2/daysince/internal/report"
)

// DryRunNotifier prints the payload that would be sent.
type DryRunNotifier struct {
	w io.Writer
}

// NewDryRunNotifier writes payloads to w in plain form.
func NewDryRunNotifier(w io.Writer) *DryRunNotifier {
	return &DryRunNotifier{w: w}
}

func (d *DryRunNotifier) Name() string {
	return "dry-run"
}

func (d *DryRunNotifier) Send(_ context.Context, payload report.Payload) error {
	if _, err := fmt.Fprintln(d.w, "🧪 TEST MODE: Would send this message to Slack:"); err != nil {
		return err
	}
	return report.WritePlain(d.w, payload)
}
