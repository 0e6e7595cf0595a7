package mail

import (
	"context"
	"log/slog"
)

// LogMailer is the dev fallback when no SMTP relay is configured: the reset
// link is written to the log so local flows can be completed by hand.
// Never use in production, as it persists plaintext secrets in log output.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, recipient, resetLink string) error {
	m.Logger.Info("password reset link (dev mailer)",
		"recipient", recipient,
		"reset_link", resetLink,
	)
	return nil
}
