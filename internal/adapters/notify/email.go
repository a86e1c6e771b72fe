package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/quickbill/quickbill_backend/internal/platform/config"
)

type emailSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func newEmailSender(cfg *config.Config) *emailSender {
	return &emailSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

func (s *emailSender) sendResetCode(to, code string) error {
	if s.host == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	subject := "Your password reset code"
	body := fmt.Sprintf("Your password reset code is %s. It expires in 15 minutes.\r\n\r\nIf you did not request this, you can ignore this message.", code)

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := s.host + ":" + s.port
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
