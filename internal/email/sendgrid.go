package email

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender implements Sender with the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	logger zerolog.Logger
}

func NewSendGridSender(apiKey string, logger zerolog.Logger) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		logger: logger.With().Str("component", "sendgrid").Logger(),
	}
}

// Send sends one message. The X-Message-Id response header is returned as the
// message ID.
func (s *SendGridSender) Send(ctx context.Context, email *Email) (string, error) {
	if len(email.To) == 0 {
		return "", ErrInvalidToAddress
	}

	from, err := mail.ParseAddress(email.From)
	if err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}

	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail(from.Name, from.Address))
	message.Subject = email.Subject

	p := sgmail.NewPersonalization()
	for _, to := range email.To {
		p.AddTos(sgmail.NewEmail("", to))
	}
	for key, value := range email.Headers {
		p.SetHeader(key, value)
	}
	message.AddPersonalizations(p)

	if email.TextBody != "" {
		message.AddContent(sgmail.NewContent("text/plain", email.TextBody))
	}
	if email.HTMLBody != "" {
		message.AddContent(sgmail.NewContent("text/html", email.HTMLBody))
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return "", fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Error().
			Int("status", response.StatusCode).
			Str("body", response.Body).
			Msg("sendgrid rejected message")
		return "", ErrProviderRejected
	}

	var messageID string
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	s.logger.Debug().Int("status", response.StatusCode).Str("message_id", messageID).Msg("email sent")
	return messageID, nil
}
