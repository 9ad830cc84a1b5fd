package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/dukerupert/shopery/internal/domain"
)

// Notification subjects. Each template gets its own subject so consumers can
// subscribe selectively; the worker listens on the wildcard.
const (
	NotificationSubjectPrefix = "shopery.notifications."
	NotificationSubjectAll    = NotificationSubjectPrefix + ">"
)

// NotificationSubject returns the subject a template is published on.
func NotificationSubject(template string) string {
	return NotificationSubjectPrefix + template
}

// NotificationPayload is the JSON envelope carried on the wire.
type NotificationPayload struct {
	To          string         `json:"to"`
	Template    string         `json:"template"`
	Context     map[string]any `json:"context"`
	RequestedAt time.Time      `json:"requested_at"`
}

// Notification converts the payload back to the domain value.
func (p NotificationPayload) Notification() domain.Notification {
	return domain.Notification{To: p.To, Template: p.Template, Context: p.Context}
}

// DecodeNotification parses a message body produced by Publisher.
func DecodeNotification(data []byte) (NotificationPayload, error) {
	var p NotificationPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal notification payload: %w", err)
	}
	if p.To == "" || p.Template == "" {
		return p, fmt.Errorf("notification payload missing to or template")
	}
	return p, nil
}

// ============================================================================
// PUBLISHERS
// ============================================================================

// MsgPublisher is the subset of *nats.Conn used for publishing.
type MsgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// Publisher implements domain.Notifier on top of NATS core publish.
type Publisher struct {
	conn MsgPublisher
	now  func() time.Time
}

func NewPublisher(conn MsgPublisher) *Publisher {
	return &Publisher{conn: conn, now: time.Now}
}

func (p *Publisher) Notify(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payloadJSON, err := json.Marshal(NotificationPayload{
		To:          n.To,
		Template:    n.Template,
		Context:     n.Context,
		RequestedAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := nats.NewMsg(NotificationSubject(n.Template))
	msg.Data = payloadJSON
	msg.Header.Set("Content-Type", "application/json")

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.Subject, err)
	}
	return nil
}

// LogPublisher logs notifications instead of publishing them. Used when
// NATS_URL is empty.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "notifier").Logger()}
}

func (p *LogPublisher) Notify(_ context.Context, n domain.Notification) error {
	p.logger.Info().
		Str("to", n.To).
		Str("template", n.Template).
		Interface("context", n.Context).
		Msg("notification not published: no broker configured")
	return nil
}

// NoopPublisher drops every notification.
type NoopPublisher struct{}

func (NoopPublisher) Notify(context.Context, domain.Notification) error { return nil }
