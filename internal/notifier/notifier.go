// Package notifier delivers report payloads to a chat webhook.
package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/boshu2/daysince/internal/report"
)

// ErrWebhookStatus is returned when the webhook answers with a non-2xx status.
var ErrWebhookStatus = errors.New("webhook returned non-success status")

// ErrNoWebhook is returned by Select when delivery is required but no
// webhook URL is configured.
var ErrNoWebhook = errors.New("webhook URL not set (set DAYSINCE_WEBHOOK_URL, or use --dry-run for local testing)")

// Notifier is the interface for sending report payloads.
type Notifier interface {
	// Name returns the notifier identifier
	Name() string
	// Send dispatches a payload
	Send(ctx context.Context, payload report.Payload) error
}

// Select picks the notifier for a run: plain output on out in test mode,
// otherwise one Slack webhook per URL. Several webhooks are wrapped in a
// Fanout and share a single limiter.
func Select(webhookURLs []string, testMode bool, out io.Writer, opts ...Option) (Notifier, error) {
	if testMode {
		return NewDryRunNotifier(out), nil
	}
	switch len(webhookURLs) {
	case 0:
		return nil, ErrNoWebhook
	case 1:
		return NewSlackNotifier(webhookURLs[0], opts...), nil
	}

	opts = append([]Option{WithMinInterval(defaultMinInterval)}, opts...)
	var logger *slog.Logger
	notifiers := make([]Notifier, 0, len(webhookURLs))
	for _, u := range webhookURLs {
		s := NewSlackNotifier(u, opts...)
		logger = s.logger
		notifiers = append(notifiers, s)
	}
	return NewFanout(logger, notifiers...), nil
}
