package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobwatchhq/jobwatch/internal/config"
	"github.com/wneessen/go-mail"
)

// Mailer is the notification transport: one rendered message to one recipient.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, htmlBody string) error
}

// NewMailer selects the transport from config: real SMTP when a password is
// present, otherwise the dry-run transport that only logs intent.
func NewMailer(cfg config.SMTPConfig) (Mailer, error) {
	if !cfg.Configured() {
		slog.Info("EMAIL_PASSWORD not set, email notifications run in dry-run mode")
		return DryRunMailer{}, nil
	}
	return NewSMTPMailer(cfg)
}

// SMTPMailer delivers over authenticated SMTP with STARTTLS.
type SMTPMailer struct {
	client *mail.Client
	sender string
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Sender),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, sender: cfg.Sender}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, recipient, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// DryRunMailer logs delivery intent and reports ErrNotConfigured so callers
// record the attempt as a failed (not sent) delivery.
type DryRunMailer struct{}

func (DryRunMailer) Send(_ context.Context, recipient, subject, _ string) error {
	slog.Info("email suppressed: no credentials configured",
		"recipient", recipient,
		"subject", subject,
	)
	return ErrNotConfigured
}
