package email

import (
	"context"

	"github.com/rs/zerolog/log"
)

// ConsoleService writes messages to the log instead of sending them. Used in
// development when no SendGrid key is configured.
type ConsoleService struct{}

var _ Service = (*ConsoleService)(nil)

// NewConsoleService creates a console mail service.
func NewConsoleService() *ConsoleService {
	return &ConsoleService{}
}

// Send logs the message and always succeeds.
func (s *ConsoleService) Send(_ context.Context, to, toName, subject, body string) error {
	log.Info().
		Str("to", to).
		Str("toName", toName).
		Str("subject", subject).
		Str("body", body).
		Msg("Console mail (not sent)")
	return nil
}
