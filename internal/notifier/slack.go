package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/boshu2/daysince/internal/report"
)

const (
	contentTypeJSON    = "application/json"
	defaultTimeout     = 10 * time.Second
	defaultMinInterval = time.Second
	maxErrorBody       = 512
)

// SlackNotifier posts Block Kit payloads to a Slack incoming webhook.
// Posts are paced by a limiter; Slack accepts about one message per second
// per webhook.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a SlackNotifier.
type Option func(*SlackNotifier)

// WithTimeout bounds each POST.
func WithTimeout(d time.Duration) Option {
	return func(s *SlackNotifier) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithMinInterval sets the minimum spacing between posts. Zero disables pacing.
// The limiter is created once, so every notifier built with the same option
// shares it.
func WithMinInterval(d time.Duration) Option {
	limiter := newLimiter(d)
	return func(s *SlackNotifier) {
		s.limiter = limiter
	}
}

// WithLogger sets the logger for delivery diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *SlackNotifier) {
		if l != nil {
			s.logger = l
		}
	}
}

func newLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// NewSlackNotifier creates a Slack notifier. The URL is checked on Send.
func NewSlackNotifier(webhookURL string, opts ...Option) *SlackNotifier {
	s := &SlackNotifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: defaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter: newLimiter(defaultMinInterval),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SlackNotifier) Name() string { return "slack" }

func validateWebhookURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("webhook URL is not set")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("webhook URL must use http or https scheme")
	}
	if u.Host == "" {
		return fmt.Errorf("webhook URL must include host")
	}
	return nil
}

// Send posts payload once. It waits for the limiter first, so consecutive
// sends through a shared limiter are spaced. Failures are returned, never retried.
func (s *SlackNotifier) Send(ctx context.Context, payload report.Payload) error {
	if err := validateWebhookURL(s.webhookURL); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for send slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	s.logger.Debug("webhook posted", "status", resp.StatusCode, "blocks", len(payload.Blocks), "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %d %s", ErrWebhookStatus, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
