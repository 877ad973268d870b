package notification

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"realestate.backend/internal/config"
	"realestate.backend/pkg/logger"
)

// Delivery errors
var (
	ErrMailerNotConfigured = errors.New("email service not configured")
	ErrQueueFull           = errors.New("notification queue full")
)

// Message is a rendered email
type Message struct {
	To       string
	Subject  string
	HTML     string
	Template string
}

// Mailer delivers a rendered message
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

var smtpSendMail = smtp.SendMail

// SMTPMailer sends HTML mail through an SMTP relay
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Configured reports whether host and credentials are present
func (m *SMTPMailer) Configured() bool {
	return m.cfg.Host != "" && m.cfg.Port > 0 && m.cfg.Username != "" && m.cfg.Password != ""
}

// Send delivers msg. The context is only checked before dialing; net/smtp has no deadline support.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrMailerNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)
	if err := smtpSendMail(addr, auth, m.cfg.FromEmail, []string{msg.To}, m.compose(msg)); err != nil {
		return fmt.Errorf("send %s email: %w", msg.Template, err)
	}
	return nil
}

func (m *SMTPMailer) compose(msg Message) []byte {
	var b strings.Builder
	from := m.cfg.FromEmail
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail)
	}
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

// LogMailer writes messages to the log instead of sending them.
// Used when SMTP is not configured so local environments keep working.
type LogMailer struct{}

// Send logs msg
func (LogMailer) Send(ctx context.Context, msg Message) error {
	logger.Info(ctx, "Email not sent, SMTP disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template),
	)
	return nil
}

// NewMailer picks the SMTP mailer when configured and the log mailer otherwise
func NewMailer(cfg config.SMTPConfig) Mailer {
	m := NewSMTPMailer(cfg)
	if m.Configured() {
		return m
	}
	return LogMailer{}
}
