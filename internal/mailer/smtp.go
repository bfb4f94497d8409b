package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/leapwind/serverless-auth/internal/verification/domain"
)

// SMTPConfig holds the SMTP relay settings for confirmation mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Email    string // sender address and auth identity
	Password string
}

// SMTPMailer sends confirmation mail through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer returns a Mailer that delivers through the given SMTP relay.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send renders the mode's confirmation mail and delivers it to the recipient.
// The context is consulted before dialing; net/smtp itself does not take one.
func (m *SMTPMailer) Send(ctx context.Context, to string, mode domain.Mode, confirmationURL, projectTag string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body, err := renderMail(mode, confirmationURL, projectTag)
	if err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = m.cfg.Email
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Email, m.cfg.Password, m.cfg.Host)
	return e.Send(addr, auth)
}
