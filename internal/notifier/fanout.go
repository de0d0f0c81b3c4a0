package notifier

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/boshu2/daysince/internal/report"
)

// Fanout sends one payload through several notifiers in order.
type Fanout struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewFanout creates a fanout over notifiers. A nil logger discards output.
func NewFanout(logger *slog.Logger, notifiers ...Notifier) *Fanout {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fanout{notifiers: notifiers, logger: logger}
}

func (f *Fanout) Name() string {
	return fmt.Sprintf("fanout(%d)", len(f.notifiers))
}

// Send delivers payload to every notifier. A failure is logged and does not
// stop the rest; the first error is returned.
func (f *Fanout) Send(ctx context.Context, payload report.Payload) error {
	var firstErr error
	for i, n := range f.notifiers {
		if err := n.Send(ctx, payload); err != nil {
			f.logger.Error("notifier failed", "notifier", n.Name(), "target", i+1, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("notifier %s #%d: %w", n.Name(), i+1, err)
			}
		}
	}
	return firstErr
}
