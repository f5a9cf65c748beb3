package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender only logs emails. Used when no outbox is configured.
type LogSender struct{}

// Send logs the email headers.
func (LogSender) Send(ctx context.Context, email Email) error {
	zerolog.Ctx(ctx).Info().
		Str("kind", string(email.Kind)).
		Str("appointment_id", email.AppointmentID).
		Str("to", email.To).
		Str("subject", email.Subject).
		Msg("email not dispatched: no outbox configured")
	return nil
}
