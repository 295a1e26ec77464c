package notify

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/wneessen/go-mail"
)

// SMTP delivers directly to the configured mail server with plain
// authentication. It is the preferred backend: no local mailer setup needed.
type SMTP struct{}

// Name implements Sender.
func (SMTP) Name() string { return "smtp" }

// Send implements Sender.
func (SMTP) Send(ctx context.Context, cfg Config, subject string, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(cfg.From); err != nil {
		return errors.Wrap(err, "invalid sender address")
	}
	if err := msg.To(cfg.To); err != nil {
		return errors.Wrap(err, "invalid recipient address")
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return errors.Wrap(err, "could not build smtp client")
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, "could not deliver over smtp")
	}

	return nil
}

var _ Sender = SMTP{}
