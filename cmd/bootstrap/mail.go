package bootstrap

import (
	"go.uber.org/fx"

	"quotedesk/internal/infra/mail"
	"quotedesk/internal/pkg/config"
)

var MailModule = fx.Module("mail",
	fx.Provide(
		fx.Annotate(
			NewMailer,
			fx.As(new(mail.Sender)),
		),
	),
)

func NewMailer(cfg config.Config) (*mail.SMTPMailer, error) {
	return mail.NewSMTPMailer(cfg.SMTP)
}
