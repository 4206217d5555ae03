// utils/email.go
package utils

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// EmailService sends transactional mail through SendGrid. When no API key
// is configured the service is a no-op, so local runs and tests do not need
// a SendGrid account.
type EmailService struct {
	client *sendgrid.Client
	sender string
	log    *logrus.Logger
}

// NewEmailService initializes and returns a new EmailService instance.
func NewEmailService(apiKey, sender string, log *logrus.Logger) *EmailService {
	es := &EmailService{sender: sender, log: log}
	if apiKey != "" {
		es.client = sendgrid.NewSendClient(apiKey)
	} else {
		log.Warn("SENDGRID_API_KEY not set, outgoing email disabled")
	}
	return es
}

// Send delivers one email. Errors are returned for the caller to log;
// mail failures must never fail the originating request.
func (es *EmailService) Send(toEmail, subject, htmlContent string) error {
	if es.client == nil {
		return nil
	}
	from := mail.NewEmail("Storefront", es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)
	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcomeEmail greets a freshly registered user.
func (es *EmailService) SendWelcomeEmail(toEmail, firstName string) {
	htmlContent := fmt.Sprintf(
		"<strong>Welcome %s!</strong><br><br>Your account has been created. Happy shopping!",
		firstName,
	)
	if err := es.Send(toEmail, "Welcome to Storefront", htmlContent); err != nil {
		es.log.WithError(err).WithField("to", toEmail).Error("welcome email failed")
	}
}

// SendCheckoutConfirmation confirms a completed checkout.
func (es *EmailService) SendCheckoutConfirmation(toEmail string, total float64, quantity int) {
	htmlContent := fmt.Sprintf(
		"<strong>Thank you for your purchase!</strong><br><br>Items: <strong>%d</strong><br>Total: <strong>$%.2f</strong><br><br>Purchased items will be delivered to your registered address.",
		quantity,
		total,
	)
	if err := es.Send(toEmail, "Order Confirmation", htmlContent); err != nil {
		es.log.WithError(err).WithField("to", toEmail).Error("checkout confirmation email failed")
	}
}
