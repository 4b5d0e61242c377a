package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"invoicedash/internal/domain"
	"invoicedash/internal/forms"
)

// listingPath is the invoice listing view whose cached render is marked
// stale after every successful mutation.
const listingPath = "/dashboard/invoices"

// invoiceSchema is the declarative rule set for invoice form input. Create
// and update share it; id and date are never user input (id is assigned by
// the store, date is computed server-side at creation).
var invoiceSchema = forms.Schema{
	Fields: []forms.Field{
		{Name: "customerId", Kind: forms.String, Required: true},
		{Name: "amount", Kind: forms.Decimal, Required: true, Min: forms.Min(0)},
		{Name: "status", Kind: forms.Enum, Required: true, Enum: domain.InvoiceStatuses},
	},
}

type invoiceService struct {
	invoiceRepo    domain.InvoiceRepository
	customerRepo   domain.CustomerRepository
	revalidator    domain.Revalidator
	emailService   domain.EmailService
	contextTimeout time.Duration
	now            func() time.Time
}

func NewInvoiceService(invoiceRepo domain.InvoiceRepository,
	customerRepo domain.CustomerRepository,
	revalidator domain.Revalidator,
	emailService domain.EmailService,
	timeout time.Duration,
) domain.InvoiceService {
	return &invoiceService{
		invoiceRepo:    invoiceRepo,
		customerRepo:   customerRepo,
		revalidator:    revalidator,
		emailService:   emailService,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func formValues(input domain.InvoiceInput) url.Values {
	return url.Values{
		"customerId": {input.CustomerID},
		"amount":     {input.Amount},
		"status":     {input.Status},
	}
}

// toCents converts a major-unit amount to minor units, rounding to the
// nearest integer to avoid floating-point drift.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (s *invoiceService) Create(ctx context.Context, input domain.InvoiceInput) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	values, verr := invoiceSchema.Parse(formValues(input))
	if verr != nil {
		return nil, verr
	}

	date := s.now().UTC().Format("2006-01-02")
	inv := domain.NewInvoice(values.Get("customerId"), toCents(values.Number("amount")), values.Get("status"), date)

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.revalidator.Revalidate(listingPath)
	s.sendReceipt(ctx, inv)
	return inv, nil
}

func (s *invoiceService) Update(ctx context.Context, id string, input domain.InvoiceInput) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	values, verr := invoiceSchema.Parse(formValues(input))
	if verr != nil {
		return nil, verr
	}

	existing, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	wasPaid := existing.Status == domain.InvoiceStatusPaid

	existing.CustomerID = values.Get("customerId")
	existing.Amount = toCents(values.Number("amount"))
	existing.Status = values.Get("status")
	// ID and Date are immutable post-creation; the repository never writes them.

	if err := s.invoiceRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update invoice: %w", err)
	}

	s.revalidator.Revalidate(listingPath)
	if !wasPaid && existing.Status == domain.InvoiceStatusPaid {
		s.sendPaidConfirmation(ctx, existing)
	}
	return existing, nil
}

func (s *invoiceService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Already gone. Deleting twice is a well-defined not-found, never a crash.
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete invoice: %w", err)
	}

	s.revalidator.Revalidate(listingPath)
	return nil
}

func (s *invoiceService) List(ctx context.Context) ([]*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	if invoices == nil {
		invoices = []*domain.Invoice{}
	}
	return invoices, nil
}

func (s *invoiceService) Customers(ctx context.Context) ([]*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if customers == nil {
		customers = []*domain.Customer{}
	}
	return customers, nil
}

// EditPageData fetches the invoice and the full customer list concurrently;
// both reads are issued before either is awaited so their latencies overlap.
func (s *invoiceService) EditPageData(ctx context.Context, id string) (*domain.EditPageData, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		invoice   *domain.Invoice
		customers []*domain.Customer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		inv, err := s.invoiceRepo.GetByID(gctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get invoice: %w", err)
		}
		invoice = inv
		return nil
	})
	g.Go(func() error {
		cs, err := s.customerRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("list customers: %w", err)
		}
		customers = cs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []*domain.Customer{}
	}
	return &domain.EditPageData{Invoice: invoice, Customers: customers}, nil
}

// displayAmount formats minor units as a major-unit string for emails.
func displayAmount(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

// sendReceipt emails the customer a receipt for a newly created invoice.
// Sending is best-effort: a failure is logged and never fails the mutation.
func (s *invoiceService) sendReceipt(ctx context.Context, inv *domain.Invoice) {
	customer, err := s.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		log.Printf("[EMAIL] Skipping receipt for invoice %s: customer lookup failed: %v", inv.ID, err)
		return
	}
	data := &domain.InvoiceReceiptEmailData{
		Email:         customer.Email,
		CustomerName:  customer.Name,
		InvoiceID:     inv.ID,
		AmountDisplay: displayAmount(inv.Amount),
		Date:          inv.Date,
	}
	if err := s.emailService.SendInvoiceReceipt(ctx, data); err != nil {
		log.Printf("[EMAIL] Failed to send receipt for invoice %s: %v", inv.ID, err)
	}
}

// sendPaidConfirmation emails the customer when an invoice transitions to paid.
func (s *invoiceService) sendPaidConfirmation(ctx context.Context, inv *domain.Invoice) {
	customer, err := s.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		log.Printf("[EMAIL] Skipping paid confirmation for invoice %s: customer lookup failed: %v", inv.ID, err)
		return
	}
	data := &domain.InvoicePaidEmailData{
		Email:         customer.Email,
		CustomerName:  customer.Name,
		InvoiceID:     inv.ID,
		AmountDisplay: displayAmount(inv.Amount),
	}
	if err := s.emailService.SendInvoicePaid(ctx, data); err != nil {
		log.Printf("[EMAIL] Failed to send paid confirmation for invoice %s: %v", inv.ID, err)
	}
}
