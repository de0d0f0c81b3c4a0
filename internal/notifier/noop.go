package notifier

import (
	"context"

	"github.com/boshu2/daysince/internal/report"
)

// NoopNotifier records payloads instead of sending them.
type NoopNotifier struct {
	Sent []report.Payload
}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) Name() string {
	return "noop"
}

func (n *NoopNotifier) Send(_ context.Context, payload report.Payload) error {
	n.Sent = append(n.Sent, payload)
	return nil
}
