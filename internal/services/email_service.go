package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, name, role string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, name, role string) error {
	m := s.welcomeMessage(email, name, role)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) welcomeMessage(email, name, role string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to TaskFlow!")

	body := fmt.Sprintf(`
		<h2>Welcome to TaskFlow, %s!</h2>
		<p>An administrator created a <b>%s</b> account for you.</p>
		<p>Sign in with this e-mail address and the password you were given.</p>
		<p>Best regards,<br>The TaskFlow Team</p>
	`, html.EscapeString(name), html.EscapeString(role))

	m.SetBody("text/html", body)
	return m
}
