package mail

import (
	"context"

	gomail "github.com/wneessen/go-mail"

	"quotedesk/internal/pkg/config"
	"quotedesk/internal/pkg/errs"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender is the outbound transport. The SMTP relay itself is an external
// collaborator; everything here is composition and delivery.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create smtp client")
	}

	return &SMTPMailer{client: client, from: cfg.From}, nil
}

var _ Sender = (*SMTPMailer)(nil)

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	message := gomail.NewMsg()
	if err := message.From(m.from); err != nil {
		return errs.Wrap(err, "invalid from address")
	}
	if err := message.To(msg.To); err != nil {
		return errs.Wrap(err, "invalid recipient address")
	}
	message.Subject(msg.Subject)
	message.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	if err := m.client.DialAndSendWithContext(ctx, message); err != nil {
		return errs.Wrap(err, "failed to send mail")
	}
	return nil
}
