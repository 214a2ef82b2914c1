// Package mail renders and delivers outgoing e-mail over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/planzo/planzo-api/internal/config"
)

var (
	// ErrNoRecipients is returned when a message has no To addresses.
	ErrNoRecipients = errors.New("no recipients")
	// ErrUnknownTemplate is returned for a template name that is not registered.
	ErrUnknownTemplate = errors.New("unknown mail template")
)

// Message is an outgoing e-mail rendered from a named template.
type Message struct {
	To       []string
	Subject  string
	Template string
	Data     interface{}
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dialer is the part of gomail.Dialer used by SMTPSender.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers messages through an SMTP server.
type SMTPSender struct {
	dialer Dialer
	from   string
	logger *zap.SugaredLogger
}

// NewSMTPSender creates a sender for the configured SMTP server.
func NewSMTPSender(cfg config.MailConfig, logger *zap.SugaredLogger) *SMTPSender {
	return NewSMTPSenderWithDialer(
		gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg.From,
		logger,
	)
}

// NewSMTPSenderWithDialer creates a sender on top of an existing dialer.
func NewSMTPSenderWithDialer(dialer Dialer, from string, logger *zap.SugaredLogger) *SMTPSender {
	return &SMTPSender{dialer: dialer, from: from, logger: logger}
}

// Send renders msg and hands it to the SMTP server.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Errorw("SMTP delivery failed",
			"template", msg.Template,
			"recipients", len(msg.To),
			"error", err,
		)
		return fmt.Errorf("send mail: %w", err)
	}

	s.logger.Infow("Mail sent", "template", msg.Template, "recipients", len(msg.To))
	return nil
}

// LogSender renders messages and logs them instead of delivering.
type LogSender struct {
	logger *zap.SugaredLogger
}

// NewLogSender creates a sender that only logs.
func NewLogSender(logger *zap.SugaredLogger) *LogSender {
	return &LogSender{logger: logger}
}

// Send renders msg and logs its envelope.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if _, err := Render(msg.Template, msg.Data); err != nil {
		return err
	}

	s.logger.Infow("Mail delivery disabled, message logged",
		"to", msg.To,
		"subject", msg.Subject,
		"template", msg.Template,
	)
	return nil
}

// New returns an SMTP sender when SMTP is configured and a LogSender otherwise.
func New(cfg config.MailConfig, logger *zap.SugaredLogger) Sender {
	if !cfg.Enabled() {
		logger.Warn("SMTP_HOST not set, outgoing mail will only be logged")
		return NewLogSender(logger)
	}
	return NewSMTPSender(cfg, logger)
}
