package services

import (
	"fmt"
	"net/smtp"

	"github.com/mlaurent/chantier-api/internal/config"
)

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

func (s *EmailService) SendProjectShareInvite(to, projectName, inviterName, role string) error {
	subject := fmt.Sprintf("%s shared the project %s with you", inviterName, projectName)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Project shared with you</h2>
			<p>Hi,</p>
			<p><strong>%s</strong> has shared the project <strong>%s</strong> with you as %s.</p>
			<p>Sign in to accept or decline this invitation.</p>
		</body>
		</html>
	`, inviterName, projectName, role)

	return s.Send(to, subject, body)
}
