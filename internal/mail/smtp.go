package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"stickynote/internal/config"
)

// SMTPMailer delivers through an SMTP relay. A connection is opened per
// message.
type SMTPMailer struct {
	client   *gomail.Client
	from     string
	fromName string
}

// NewSMTP builds a mailer from cfg. Authentication is used when a username
// is configured; TLS is opportunistic.
func NewSMTP(cfg config.MailConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail: smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("mail: sender address is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: create client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From, fromName: cfg.FromName}, nil
}

var _ Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return fmt.Errorf("mail: from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}
