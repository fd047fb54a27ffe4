package mailer

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	mail "gopkg.in/mail.v2"
)

// dialer is the subset of *mail.Dialer used for delivery
type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// smtpSender struct that implements the EmailSender interface
type smtpSender struct {
	enabled bool
	from    string
	dialer  dialer
	logger  logger.Logger
}

// NewSMTPSender creates an EmailSender from mail settings.
// A disabled sender logs the recipient and subject instead of sending.
func NewSMTPSender(settings *config.MailSettings, logger logger.Logger) (auth.EmailSender, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	sender := &smtpSender{
		enabled: settings.Enabled,
		from:    settings.From,
		logger:  logger,
	}
	if settings.Enabled {
		d := mail.NewDialer(settings.Host, settings.Port, settings.Username, settings.Password)
		d.SSL = settings.UseSSL
		if settings.UseTLS {
			d.StartTLSPolicy = mail.MandatoryStartTLS
			d.TLSConfig = &tls.Config{ServerName: settings.Host, MinVersion: tls.VersionTLS12}
		}
		sender.dialer = d
	}
	return sender, nil
}

func (s *smtpSender) Send(ctx context.Context, email *auth.Email) error {
	if email == nil || email.To == "" {
		return fmt.Errorf("email recipient is required")
	}
	if !s.enabled {
		s.logger.Info(fmt.Sprintf("Mail disabled, skipping email to %s: %s", email.To, email.Subject))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTML)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", email.To, err)
	}

	s.logger.Info("Sent email to ", email.To)
	return nil
}
