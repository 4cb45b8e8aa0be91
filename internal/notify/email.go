package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// SMTPConfig carries the outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends outcome emails over SMTP. Delivery is best effort and
// single shot: the caller logs failures, nothing is retried.
type SMTPSender struct {
	client *mail.Client
	from   string
	log    zerolog.Logger
}

// NewSMTPSender builds the sender, or returns nil if no host is configured
// so the caller can run without email entirely.
func NewSMTPSender(cfg SMTPConfig, log zerolog.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPSender{
		client: client,
		from:   cfg.From,
		log:    log.With().Str("component", "email").Logger(),
	}, nil
}

// Send delivers one plain-text email.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
