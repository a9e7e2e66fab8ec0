package relay

import (
	"fmt"
	"net/smtp"
	"strings"
)

// mailer sends outbound mail over plain SMTP with AUTH.
type mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func newMailer(cfg Config) *mailer {
	return &mailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPassword,
		from: cfg.FromAddress,
	}
}

func (m *mailer) configured() bool {
	return m.host != "" && m.from != ""
}

func (m *mailer) send(to, subject, body string) error {
	if !m.configured() {
		return fmt.Errorf("SMTP not configured")
	}
	var sb strings.Builder
	sb.WriteString("From: " + m.from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(sb.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
