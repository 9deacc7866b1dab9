package mailer

import (
	"errors"
	"fmt"

	"enterprise-assistant-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

// ErrMailerDisabled is returned by Send when SMTP is not configured.
var ErrMailerDisabled = errors.New("mailer disabled: smtp not configured")

type IEmailService interface {
	Send(recipient, subject, htmlBody string) error
}

// sender is the slice of *gomail.Dialer the service needs.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	logger      logger.ILogger
}

// NewEmailService returns a disabled service when host or sender is empty.
func NewEmailService(host string, port int, username, password, senderEmail string, log logger.ILogger) IEmailService {
	if log == nil {
		log = logger.NewNopLogger()
	}

	s := &emailService{senderEmail: senderEmail, logger: log}
	if host != "" && senderEmail != "" {
		s.dialer = gomail.NewDialer(host, port, username, password)
	} else {
		log.Warn(logger.ModuleMailer, "SMTP not configured, notifications disabled", nil)
	}
	return s
}

func (s *emailService) Send(recipient, subject, htmlBody string) error {
	if s.dialer == nil {
		return ErrMailerDisabled
	}
	if recipient == "" {
		return fmt.Errorf("mailer: empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error(logger.ModuleMailer, "Failed to send email", map[string]interface{}{
			"recipient": recipient,
			"subject":   subject,
			"error":     err.Error(),
		})
		return err
	}

	s.logger.Info(logger.ModuleMailer, "Email sent", map[string]interface{}{
		"recipient": recipient,
		"subject":   subject,
	})
	return nil
}
