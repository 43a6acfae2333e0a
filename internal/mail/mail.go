// Package mail delivers outbound messages such as password-reset codes.
package mail

import (
	"context"
	"log/slog"
)

// Mailer sends one HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// LogMailer writes messages to the log instead of delivering them. It is
// selected when no SMTP host is configured.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log.With("component", "mail")}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.log.InfoContext(ctx, "mail_not_delivered",
		"to", to,
		"subject", subject,
		"body", htmlBody,
	)
	return nil
}
