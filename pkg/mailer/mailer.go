// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Mailer sends plain-text email to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPConfig holds connection settings for the outbound SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	cfg    SMTPConfig
	logger zerolog.Logger
}

// NewSMTPMailer builds a Mailer backed by net/smtp with PLAIN auth.
func NewSMTPMailer(cfg SMTPConfig, logger zerolog.Logger) Mailer {
	return &smtpMailer{
		cfg:    cfg,
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	if m.cfg.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		m.logger.Error().Err(err).Str("to", to).Msg("failed to send email")
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
