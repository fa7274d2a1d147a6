package infra

import (
	"fmt"
	"net/smtp"

	"github.com/ThatoMphasane/thato/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending low-stock alert emails.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configured reports whether an SMTP host was provided. When it wasn't,
// alerts stay log-only.
func (m *Mailer) Configured() bool { return m.host != "" }

// SendAlert sends a plain-text notification.
func (m *Mailer) SendAlert(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
