package services

import (
	"context"
	"fmt"
	"log"

	"invoicedash/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendInvoiceReceipt sends the invoice receipt email using the "receipt" template and the given data.
func (s *emailService) SendInvoiceReceipt(ctx context.Context, data *domain.InvoiceReceiptEmailData) error {
	if data == nil {
		return fmt.Errorf("receipt data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("receipt", data)
	if err != nil {
		return fmt.Errorf("failed to render receipt template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}
	log.Printf("[EMAIL] Receipt for invoice %s sent to %s", data.InvoiceID, data.Email)
	return nil
}

// SendInvoicePaid sends the payment confirmation email using the "paid" template.
func (s *emailService) SendInvoicePaid(ctx context.Context, data *domain.InvoicePaidEmailData) error {
	if data == nil {
		return fmt.Errorf("paid confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("paid", data)
	if err != nil {
		return fmt.Errorf("failed to render paid template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send paid confirmation email: %w", err)
	}
	log.Printf("[EMAIL] Paid confirmation for invoice %s sent to %s", data.InvoiceID, data.Email)
	return nil
}
