package email

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// LogSender writes messages to the log instead of delivering them. Used in
// development and when EMAIL_PROVIDER=log.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "email").Logger()}
}

func (s *LogSender) Send(_ context.Context, email *Email) (string, error) {
	if len(email.To) == 0 {
		return "", ErrInvalidToAddress
	}
	id := fmt.Sprintf("log-%d", time.Now().UnixNano())
	s.logger.Info().
		Str("message_id", id).
		Strs("to", email.To).
		Str("subject", email.Subject).
		Str("body", email.TextBody).
		Msg("email")
	return id, nil
}
