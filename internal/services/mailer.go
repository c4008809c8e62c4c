// internal/services/mailer.go
package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shackcart/backoffice/internal/config"
)

// MailMessage is a fully assembled outbound email.
type MailMessage struct {
	To        []string
	FromName  string
	FromEmail string
	ReplyTo   string
	Subject   string
	HTML      string
	Headers   map[string]string
}

// Mailer delivers assembled messages. Implementations must not retry
// internally; the caller decides what a failed delivery means.
type Mailer interface {
	Send(msg *MailMessage) error
}

// SMTPMailer sends HTML mail over authenticated SMTP.
type SMTPMailer struct {
	cfg *config.EmailConfig
}

func NewSMTPMailer(cfg *config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(msg *MailMessage) error {
	if m.cfg.SMTPHost == "" {
		return fmt.Errorf("smtp host not configured")
	}

	fromEmail := msg.FromEmail
	if fromEmail == "" {
		fromEmail = m.cfg.FromEmail
	}
	fromName := msg.FromName
	if fromName == "" {
		fromName = m.cfg.FromName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	for key, value := range msg.Headers {
		fmt.Fprintf(&b, "%s: %s\r\n", key, value)
	}
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, fromEmail, msg.To, []byte(b.String())); err != nil {
		return &CollaboratorError{Collaborator: "email", Err: err}
	}
	return nil
}
