package email

import (
	"fmt"
	"log"
	"net/smtp"

	"alumnihub/internal/common"
	"alumnihub/internal/config"
)

// SMTPService sends mail through a plain SMTP relay.
type SMTPService struct {
	cfg config.EmailConfig
}

// NewService returns the configured sender, or a log-only stand-in when
// email is disabled so the worker keeps draining the queue in dev.
func NewService(cfg config.EmailConfig) common.EmailService {
	if !cfg.Enabled || cfg.SMTPHost == "" {
		log.Println("email disabled, using log-only sender")
		return &logService{}
	}
	return &SMTPService{cfg: cfg}
}

func (s *SMTPService) SendEmail(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.cfg.FromName, s.cfg.FromEmail, to, subject, body,
	))

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

type logService struct{}

func (l *logService) SendEmail(to, subject, body string) error {
	log.Printf("email (disabled) - to: %s, subject: %s", to, subject)
	return nil
}
