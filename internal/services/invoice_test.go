package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"invoicedash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInvoiceRepo is an in-memory InvoiceRepository for tests.
type fakeInvoiceRepo struct {
	byID   map[string]*domain.Invoice
	nextID int
	err    error // if set, every method returns this error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		byID:   make(map[string]*domain.Invoice),
		nextID: 1,
	}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	if f.err != nil {
		return f.err
	}
	inv.ID = fmt.Sprintf("inv-%d", f.nextID)
	f.nextID++
	cp := *inv
	f.byID[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	if inv, ok := f.byID[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvoiceRepo) List(ctx context.Context) ([]*domain.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Invoice
	for _, inv := range f.byID {
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	if f.err != nil {
		return f.err
	}
	existing, ok := f.byID[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// The repository only ever writes customer_id, amount, and status.
	existing.CustomerID = inv.CustomerID
	existing.Amount = inv.Amount
	existing.Status = inv.Status
	return nil
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeCustomerRepo is an in-memory CustomerRepository for tests.
type fakeCustomerRepo struct {
	customers []*domain.Customer
	err       error
}

func (f *fakeCustomerRepo) List(ctx context.Context) ([]*domain.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.customers, nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeRevalidator records revalidated paths.
type fakeRevalidator struct {
	paths []string
}

func (f *fakeRevalidator) Revalidate(path string) {
	f.paths = append(f.paths, path)
}

// fakeEmailService records sent emails.
type fakeEmailService struct {
	receipts []*domain.InvoiceReceiptEmailData
	paid     []*domain.InvoicePaidEmailData
	err      error
}

func (f *fakeEmailService) SendInvoiceReceipt(ctx context.Context, data *domain.InvoiceReceiptEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.receipts = append(f.receipts, data)
	return nil
}

func (f *fakeEmailService) SendInvoicePaid(ctx context.Context, data *domain.InvoicePaidEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.paid = append(f.paid, data)
	return nil
}

type invoiceServiceFixture struct {
	svc         *invoiceService
	invoices    *fakeInvoiceRepo
	customers   *fakeCustomerRepo
	revalidator *fakeRevalidator
	emails      *fakeEmailService
}

func newInvoiceServiceFixture() *invoiceServiceFixture {
	invoices := newFakeInvoiceRepo()
	customers := &fakeCustomerRepo{customers: []*domain.Customer{
		{ID: "c1", Name: "Acme Corp", Email: "billing@acme.test"},
		{ID: "c2", Name: "Bolt Ltd", Email: "ap@bolt.test"},
	}}
	revalidator := &fakeRevalidator{}
	emails := &fakeEmailService{}
	svc := NewInvoiceService(invoices, customers, revalidator, emails, 2*time.Second).(*invoiceService)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)
	}
	return &invoiceServiceFixture{
		svc:         svc,
		invoices:    invoices,
		customers:   customers,
		revalidator: revalidator,
		emails:      emails,
	}
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores cents and computes date", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		inv, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "250.00",
			Status:     "pending",
		})
		require.NoError(t, err)
		require.NotEmpty(t, inv.ID)
		assert.Equal(t, "c1", inv.CustomerID)
		assert.Equal(t, int64(25000), inv.Amount)
		assert.Equal(t, "pending", inv.Status)
		assert.Equal(t, "2026-08-30", inv.Date)

		stored := f.invoices.byID[inv.ID]
		require.NotNil(t, stored)
		assert.Equal(t, int64(25000), stored.Amount)
		assert.Equal(t, []string{"/dashboard/invoices"}, f.revalidator.paths)
	})

	t.Run("rounds fractional cents", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		inv, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "10.556",
			Status:     "paid",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1056), inv.Amount)
	})

	t.Run("sends receipt to the invoice customer", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		inv, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "250.00",
			Status:     "pending",
		})
		require.NoError(t, err)
		require.Len(t, f.emails.receipts, 1)
		receipt := f.emails.receipts[0]
		assert.Equal(t, "billing@acme.test", receipt.Email)
		assert.Equal(t, inv.ID, receipt.InvoiceID)
		assert.Equal(t, "250.00", receipt.AmountDisplay)
	})

	t.Run("receipt failure does not fail the mutation", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		f.emails.err = errors.New("ses unavailable")
		_, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "10",
			Status:     "pending",
		})
		require.NoError(t, err)
	})

	t.Run("invalid status rejected before any write", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		_, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "10",
			Status:     "overdue",
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.NotEmpty(t, verr.Fields["status"])
		assert.Empty(t, f.invoices.byID)
		assert.Empty(t, f.revalidator.paths)
	})

	t.Run("non-numeric amount rejected before any write", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		_, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "ten",
			Status:     "pending",
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.NotEmpty(t, verr.Fields["amount"])
		assert.Empty(t, f.invoices.byID)
	})

	t.Run("storage error surfaced and no revalidation", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		f.invoices.err = errors.New("connection refused")
		_, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "10",
			Status:     "pending",
		})
		require.Error(t, err)
		assert.Empty(t, f.revalidator.paths)
		assert.Empty(t, f.emails.receipts)
	})
}

func TestInvoiceService_Update(t *testing.T) {
	ctx := context.Background()

	seed := func(f *invoiceServiceFixture) *domain.Invoice {
		inv, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "250.00",
			Status:     "pending",
		})
		require.NoError(t, err)
		f.revalidator.paths = nil
		f.emails.receipts = nil
		return inv
	}

	t.Run("replaces fields, id and date unchanged", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		created := seed(f)

		updated, err := f.svc.Update(ctx, created.ID, domain.InvoiceInput{
			CustomerID: "c2",
			Amount:     "99.90",
			Status:     "paid",
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.Date, updated.Date)
		assert.Equal(t, "c2", updated.CustomerID)
		assert.Equal(t, int64(9990), updated.Amount)
		assert.Equal(t, "paid", updated.Status)
		assert.Equal(t, []string{"/dashboard/invoices"}, f.revalidator.paths)
	})

	t.Run("paid transition sends confirmation", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		created := seed(f)

		_, err := f.svc.Update(ctx, created.ID, domain.InvoiceInput{
			CustomerID: "c2",
			Amount:     "250.00",
			Status:     "paid",
		})
		require.NoError(t, err)
		require.Len(t, f.emails.paid, 1)
		assert.Equal(t, "ap@bolt.test", f.emails.paid[0].Email)
	})

	t.Run("already paid sends no confirmation", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		inv, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "10",
			Status:     "paid",
		})
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, inv.ID, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "20",
			Status:     "paid",
		})
		require.NoError(t, err)
		assert.Empty(t, f.emails.paid)
	})

	t.Run("missing invoice is not found", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		_, err := f.svc.Update(ctx, "inv-missing", domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "10",
			Status:     "pending",
		})
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("validation failure leaves the row untouched", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		created := seed(f)

		_, err := f.svc.Update(ctx, created.ID, domain.InvoiceInput{
			CustomerID: "c2",
			Amount:     "abc",
			Status:     "pending",
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		stored := f.invoices.byID[created.ID]
		assert.Equal(t, int64(25000), stored.Amount)
		assert.Equal(t, "c1", stored.CustomerID)
		assert.Empty(t, f.revalidator.paths)
	})
}

func TestInvoiceService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and revalidates", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		inv, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "10",
			Status:     "pending",
		})
		require.NoError(t, err)
		f.revalidator.paths = nil

		require.NoError(t, f.svc.Delete(ctx, inv.ID))
		assert.Empty(t, f.invoices.byID)
		assert.Equal(t, []string{"/dashboard/invoices"}, f.revalidator.paths)
	})

	t.Run("double delete is a well-defined not-found", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		inv, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "10",
			Status:     "pending",
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, inv.ID))
		err = f.svc.Delete(ctx, inv.ID)
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestInvoiceService_EditPageData(t *testing.T) {
	ctx := context.Background()

	t.Run("returns invoice and customer list", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		inv, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "250.00",
			Status:     "pending",
		})
		require.NoError(t, err)

		data, err := f.svc.EditPageData(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, inv.ID, data.Invoice.ID)
		require.Len(t, data.Customers, 2)
		assert.Equal(t, "c1", data.Customers[0].ID)
	})

	t.Run("missing invoice is not found", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		data, err := f.svc.EditPageData(ctx, "inv-missing")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		assert.Nil(t, data)
	})

	t.Run("customer list error surfaced", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		inv, err := f.svc.Create(ctx, domain.InvoiceInput{
			CustomerID: "c1",
			Amount:     "10",
			Status:     "pending",
		})
		require.NoError(t, err)

		f.customers.err = errors.New("connection refused")
		_, err = f.svc.EditPageData(ctx, inv.ID)
		require.Error(t, err)
		require.False(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestInvoiceService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store yields empty slice", func(t *testing.T) {
		f := newInvoiceServiceFixture()
		invoices, err := f.svc.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, invoices)
		assert.Empty(t, invoices)
	})
}
