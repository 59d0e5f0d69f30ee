package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/umorjyoti/trip-sub006/internal/config"
)

// Sender defines the interface for sending emails.
// The rawMessage parameter should contain the full email message, including headers and body, properly formatted.
type Sender interface {
	Send(ctx context.Context, to []string, subject string, rawMessage []byte) error
}

// BuildMessage renders a plain text message with the essential headers.
func BuildMessage(from string, to []string, subject, body string, date time.Time) []byte {
	var sb strings.Builder
	sb.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(strings.ReplaceAll(strings.TrimRight(body, "\r\n"), "\n", "\r\n"))
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

// SMTPSender implements the Sender interface using Go's net/smtp package.
type SMTPSender struct {
	from string
	auth smtp.Auth
	addr string
	log  logr.Logger
}

// NewSMTPSender creates a new SMTPSender, or a LoggingSender when no SMTP host is configured.
func NewSMTPSender(cfg *config.Config, log logr.Logger) Sender {
	if cfg.SmtpHost == "" {
		log.Info("SMTP host not configured, using logging email sender")
		return &LoggingSender{log: log}
	}

	var auth smtp.Auth
	if cfg.SmtpUsername != "" {
		auth = smtp.PlainAuth("", cfg.SmtpUsername, cfg.SmtpPassword, cfg.SmtpHost)
	}

	return &SMTPSender{
		from: cfg.SmtpFromAddress,
		auth: auth,
		addr: fmt.Sprintf("%s:%d", cfg.SmtpHost, cfg.SmtpPort),
		log:  log,
	}
}

// Send sends an email using SMTP.
func (s *SMTPSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	if err := smtp.SendMail(s.addr, s.auth, s.from, to, rawMessage); err != nil {
		return fmt.Errorf("smtp error: %w", err)
	}
	s.log.Info("email sent", "to", to, "subject", subject)
	return nil
}

// LoggingSender only logs the email. Used when SMTP isn't configured.
type LoggingSender struct {
	log logr.Logger
}

func (s *LoggingSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	s.log.Info("email logged instead of sent", "to", to, "subject", subject, "bytes", len(rawMessage))
	s.log.V(1).Info("email body", "raw", string(rawMessage))
	return nil
}

// NewFromConfig builds the sender used by the background worker: SMTP (or logging),
// plus a file copy when EMAIL_LOG_FILE is set.
func NewFromConfig(cfg *config.Config, log logr.Logger) (Sender, error) {
	composite := NewCompositeEmailSender(NewSMTPSender(cfg, log))
	if cfg.EmailLogFile != "" {
		fileSender, err := NewFileEmailSender(cfg.EmailLogFile, log)
		if err != nil {
			return nil, err
		}
		composite.AddSender(fileSender)
	}
	return composite, nil
}
