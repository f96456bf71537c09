// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Ops alerting over SMTP. Senders on WhatsApp never receive email; these go
// to the distributor's ops inbox when something needs a human.

type IEmailService interface {
	SendOrderFailureAlert(toEmail, storeName, messageId, reason string) error
	SendOpsAlert(toEmail, subject, body string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendOrderFailureAlert(toEmail, storeName, messageId, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Order intake failure for %s", storeName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Order could not be recorded</h2>
			<p>An inbound order for <b>%s</b> failed after the customer was already answered.</p>
			<p>Source message id: <code>%s</code></p>
			<p>Reason:</p>
			<p style="color: #C0392B;">%s</p>
			<p>The customer received an apology and may retry. Check the logs for the full pipeline trace.</p>
		</div>
	`, storeName, messageId, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send order failure alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Order failure alert sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendOpsAlert(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)

	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<p>%s</p>
		</div>
	`, subject, body)

	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send ops alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Ops alert sent to %s\n", toEmail)
	return nil
}
