// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mailer delivers transactional email. SMTP delivery goes through
// gomail; without SMTP settings messages are written to the log instead,
// which is what development setups use.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"bizdir/internal/config"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP sender when a host is configured, otherwise a
// logging sender.
func New(cfg config.SMTPConfig) Sender {
	if cfg.Host == "" {
		return LogSender{}
	}
	return NewSMTP(cfg)
}

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

// NewSMTP creates an SMTP sender from the given settings.
func NewSMTP(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Send dials the relay and delivers msg. gomail has no context support,
// so cancellation is only honored before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(compose(s.from, msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	slog.Info("mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// compose builds the MIME message. The plain-text part is always present;
// HTML is added as an alternative when set.
func compose(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	return m
}

// LogSender writes messages to the structured log instead of sending them.
type LogSender struct{}

// Send logs msg at Info level, body included.
func (LogSender) Send(_ context.Context, msg Message) error {
	slog.Info("mail not sent (smtp disabled)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Text,
	)
	return nil
}
