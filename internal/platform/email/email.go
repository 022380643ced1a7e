package email

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"hrms/internal/platform/config"
)

// Sender delivers plain-text mail over SMTP. When email is disabled it logs
// the message instead so local development sees what would have been sent.
type Sender struct {
	cfg config.Config
}

func New(cfg config.Config) *Sender {
	return &Sender{cfg: cfg}
}

func (s *Sender) Send(to, subject, body string) error {
	if !s.cfg.EmailEnabled {
		slog.Info("email disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.EmailFrom,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, s.cfg.EmailFrom, []string{to}, []byte(msg))
}
