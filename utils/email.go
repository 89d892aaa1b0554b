// utils/email.go
package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"
	"github.com/sirupsen/logrus"

	"storefront/models"
)

// EmailService sends transactional mail through Postmark.
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService returns a mail service, or nil when POSTMARK_API_TOKEN is
// not configured. Callers treat a nil service as "mail disabled".
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		logrus.Warn("POSTMARK_API_TOKEN not set, email notifications disabled")
		return nil
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a basic email to the specified recipient.
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendWelcomeEmail greets a freshly registered account.
func (es *EmailService) SendWelcomeEmail(toEmail, displayName string) error {
	subject := "Welcome to the Store"
	htmlContent := fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Your account has been created. Happy shopping!",
		displayName,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderConfirmationEmail confirms a placed order.
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br><br>Total: <strong>$%.2f</strong><br>Status: <strong>%s</strong><br><br>Thank you for shopping with us!",
		order.ID.Hex(),
		order.Total,
		order.Status,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
