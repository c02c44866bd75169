// Package mailer sends transactional HTML email over SMTP.
package mailer

import (
	"errors"
	"fmt"
	"log"

	gomail "gopkg.in/gomail.v2"
)

// ErrDisabled is returned when mail credentials are not configured.
var ErrDisabled = errors.New("mail account not configured")

// Mailer sends one HTML message. Services depend on this interface so
// tests can capture outgoing mail.
type Mailer interface {
	Send(to, subject, html string) error
}

// Config holds SMTP account details.
type Config struct {
	Host string
	Port int
	User string
	Pass string
}

// SMTPMailer is a gomail-backed Mailer.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates a mailer for the given SMTP account.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers a single HTML email from the configured account.
func (m *SMTPMailer) Send(to, subject, html string) error {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return ErrDisabled
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.User)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	log.Printf("Email sent to %s (%s)", to, subject)
	return nil
}
