package domain

import "context"

// Invoice statuses. An invoice is either awaiting payment or settled.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// InvoiceStatuses lists the accepted status values in display order.
var InvoiceStatuses = []string{InvoiceStatusPending, InvoiceStatusPaid}

// Invoice represents a customer invoice. Amount is stored in minor currency
// units (cents) to avoid floating-point rounding error. Date is the issue
// date in YYYY-MM-DD form; ID and Date are immutable after creation.
// swagger:model Invoice
type Invoice struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
	Date       string `json:"date"`
}

// NewInvoice returns a new Invoice with the given fields. ID is set by the repository on create.
func NewInvoice(customerID string, amount int64, status, date string) *Invoice {
	return &Invoice{
		CustomerID: customerID,
		Amount:     amount,
		Status:     status,
		Date:       date,
	}
}

// InvoiceInput is the raw form input for creating or updating an invoice.
// Amount arrives as the submitted decimal string (e.g. "250.00"); id and
// date are never part of user input.
type InvoiceInput struct {
	CustomerID string
	Amount     string
	Status     string
}

// InvoiceRepository defines the interface for invoice storage
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	GetByID(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context) ([]*Invoice, error)
	Update(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id string) error
}

// EditPageData is the composite view data for the invoice edit page.
type EditPageData struct {
	Invoice   *Invoice
	Customers []*Customer
}

// InvoiceService defines the invoice mutation and read operations.
type InvoiceService interface {
	Create(ctx context.Context, input InvoiceInput) (*Invoice, error)
	Update(ctx context.Context, id string, input InvoiceInput) (*Invoice, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Invoice, error)
	Customers(ctx context.Context) ([]*Customer, error)
	EditPageData(ctx context.Context, id string) (*EditPageData, error)
}

// Revalidator marks cached renders of a path stale so the next request
// recomputes them from current data.
type Revalidator interface {
	Revalidate(path string)
}
