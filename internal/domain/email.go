package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// InvoiceReceiptEmailData holds data for the invoice-created receipt email.
type InvoiceReceiptEmailData struct {
	Email         string
	CustomerName  string
	InvoiceID     string
	AmountDisplay string // formatted major-unit amount, e.g. "250.00"
	Date          string
}

// InvoicePaidEmailData holds data for the payment confirmation email.
type InvoicePaidEmailData struct {
	Email         string
	CustomerName  string
	InvoiceID     string
	AmountDisplay string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendInvoiceReceipt(ctx context.Context, data *InvoiceReceiptEmailData) error
	SendInvoicePaid(ctx context.Context, data *InvoicePaidEmailData) error
}
