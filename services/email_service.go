package services

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/ceejaycejas/nutrikid-sbfp/config"
)

// EmailService is any transport that can deliver a plain-text message.
type EmailService interface {
	Send(toName, toAddr, subject, body string) error
}

// NewEmailService picks SendGrid when an API key is configured, otherwise a
// console service that only logs. Mail must never block account flows in
// development.
func NewEmailService(cfg *config.Config) EmailService {
	if cfg.SendgridAPIKey != "" {
		return &SendgridEmailService{
			client:   sendgrid.NewSendClient(cfg.SendgridAPIKey),
			fromName: cfg.MailFromName,
			fromAddr: cfg.MailFromAddr,
		}
	}
	return &ConsoleEmailService{}
}

type SendgridEmailService struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

func (s *SendgridEmailService) Send(toName, toAddr, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromAddr)
	to := mail.NewEmail(toName, toAddr)
	msg := mail.NewSingleEmail(from, subject, to, body, "")
	resp, err := s.client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// ConsoleEmailService writes outgoing mail to the log instead of sending it.
type ConsoleEmailService struct{}

func (s *ConsoleEmailService) Send(toName, toAddr, subject, body string) error {
	log.Printf("EMAIL to=%s <%s> subject=%q\n%s", toName, toAddr, subject, body)
	return nil
}
