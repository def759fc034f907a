// Package notify delivers short desktop notifications about loop results.
//
// Delivery is fire-and-forget: Notify returns at once, and a failure to
// reach the OS notification facility is only written to the diagnostic log.
// Platform senders shell out to native tools (notify-send on Linux,
// osascript on macOS); other platforms get a no-op sender.
package notify

import (
	"context"
	"time"

	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/aatumaykin/curlloop/internal/metrics"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultPreviewChars is the body length after which previews are cut.
	DefaultPreviewChars = 300
	// DefaultTimeout bounds a single delivery attempt.
	DefaultTimeout = 5 * time.Second

	ellipsis = "..."
)

// Notification is a single desktop notification.
type Notification struct {
	Title string
	Body  string
}

// Config holds notifier settings.
type Config struct {
	Enabled      bool
	PreviewChars int
	Timeout      time.Duration
}

// Notifier sends previews of payloads through a Sender.
type Notifier struct {
	cfg     Config
	sender  Sender
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates a notifier using the platform sender.
func New(cfg Config, log *logger.Logger, m *metrics.Metrics) *Notifier {
	return NewWithSender(cfg, NewSender(), log, m)
}

// NewWithSender creates a notifier with a custom sender.
func NewWithSender(cfg Config, sender Sender, log *logger.Logger, m *metrics.Metrics) *Notifier {
	if cfg.PreviewChars <= 0 {
		cfg.PreviewChars = DefaultPreviewChars
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.Enabled && !sender.VisualAvailable() {
		log.Warn("desktop notifications unavailable on this system, previews will only be journaled",
			logger.Field{Key: "platform", Value: Platform()})
	}

	return &Notifier{
		cfg:     cfg,
		sender:  sender,
		logger:  log,
		metrics: m,
	}
}

// Enabled reports whether notifications are switched on.
func (n *Notifier) Enabled() bool {
	return n.cfg.Enabled
}

// Notify sends a preview of body in the background.
func (n *Notifier) Notify(title, body string) {
	if !n.cfg.Enabled {
		return
	}
	go func() {
		_ = n.Send(title, body)
	}()
}

// Send delivers a preview of body synchronously. Errors are logged and
// also returned for callers that care.
func (n *Notifier) Send(title, body string) error {
	if !n.cfg.Enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.cfg.Timeout)
	defer cancel()

	note := Notification{
		Title: title,
		Body:  Preview(body, n.cfg.PreviewChars),
	}

	if err := n.sender.SendVisual(ctx, note); err != nil {
		n.metrics.NotifyFailed()
		n.logger.Warn("notification delivery failed",
			logger.Field{Key: "title", Value: title},
			logger.Field{Key: "error", Value: err.Error()})
		return err
	}
	return nil
}

// Preview normalizes body to NFC and cuts it to at most max runes,
// appending "..." when something was cut.
func Preview(body string, max int) string {
	if max <= 0 {
		max = DefaultPreviewChars
	}

	body = norm.NFC.String(body)

	count := 0
	for i := range body {
		if count == max {
			return body[:i] + ellipsis
		}
		count++
	}
	return body
}
