package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"invoicedash/internal/delivery/web"
	"invoicedash/internal/domain"
)

// invoicesPath is the invoice listing view; mutations redirect back to it.
const invoicesPath = "/dashboard/invoices"

// InvoicePageController serves the server-rendered invoice pages.
type InvoicePageController struct {
	Logger   *slog.Logger
	Service  domain.InvoiceService
	Renderer *web.Renderer
}

func NewInvoicePageController(logger *slog.Logger, svc domain.InvoiceService, renderer *web.Renderer) *InvoicePageController {
	return &InvoicePageController{
		Logger:   logger,
		Service:  svc,
		Renderer: renderer,
	}
}

// ListInvoices renders the invoice listing.
func (c *InvoicePageController) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := c.Service.List(r.Context())
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	c.renderPage(w, r, http.StatusOK, "invoices.html", web.InvoicesPage{
		Title:    "Invoices",
		Invoices: invoices,
	})
}

// NewInvoiceForm renders the empty create form with the customer list.
func (c *InvoicePageController) NewInvoiceForm(w http.ResponseWriter, r *http.Request) {
	customers, err := c.Service.Customers(r.Context())
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	c.renderPage(w, r, http.StatusOK, "invoice_create.html", c.createFormPage(customers, nil, nil, ""))
}

// CreateInvoice handles the create form submission: validate, persist,
// revalidate the listing, and redirect to it. Validation and storage
// failures re-render the form instead of redirecting.
func (c *InvoicePageController) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	input, err := invoiceFormInput(r)
	if err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	_, err = c.Service.Create(r.Context(), input)
	if err == nil {
		http.Redirect(w, r, invoicesPath, http.StatusSeeOther)
		return
	}
	customers, custErr := c.Service.Customers(r.Context())
	if custErr != nil {
		c.serverError(w, r, custErr)
		return
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.renderPage(w, r, http.StatusBadRequest, "invoice_create.html",
			c.createFormPage(customers, submittedValues(input), verr.Fields, ""))
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	c.renderPage(w, r, http.StatusInternalServerError, "invoice_create.html",
		c.createFormPage(customers, submittedValues(input), nil, "Could not save the invoice. Please try again."))
}

// EditInvoicePage renders the edit form pre-populated with the invoice and
// the customer list, or the 404 page when the invoice does not exist.
func (c *InvoicePageController) EditInvoicePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := c.Service.EditPageData(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.notFound(w, r, id)
			return
		}
		c.serverError(w, r, err)
		return
	}
	values := map[string]string{
		"customerId": data.Invoice.CustomerID,
		"amount":     fmt.Sprintf("%.2f", float64(data.Invoice.Amount)/100),
		"status":     data.Invoice.Status,
	}
	c.renderPage(w, r, http.StatusOK, "invoice_edit.html",
		c.editFormPage(id, data.Invoice, data.Customers, values, nil, ""))
}

// UpdateInvoice handles the edit form submission.
func (c *InvoicePageController) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	input, err := invoiceFormInput(r)
	if err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	_, err = c.Service.Update(r.Context(), id, input)
	if err == nil {
		http.Redirect(w, r, invoicesPath, http.StatusSeeOther)
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		c.notFound(w, r, id)
		return
	}
	customers, custErr := c.Service.Customers(r.Context())
	if custErr != nil {
		c.serverError(w, r, custErr)
		return
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.renderPage(w, r, http.StatusBadRequest, "invoice_edit.html",
			c.editFormPage(id, nil, customers, submittedValues(input), verr.Fields, ""))
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	c.renderPage(w, r, http.StatusInternalServerError, "invoice_edit.html",
		c.editFormPage(id, nil, customers, submittedValues(input), nil, "Could not save the invoice. Please try again."))
}

// DeleteInvoice deletes in place from the listing and returns to it.
// Deleting an already-deleted invoice is treated as already gone.
func (c *InvoicePageController) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := c.Service.Delete(r.Context(), id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		c.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, invoicesPath, http.StatusSeeOther)
}

func (c *InvoicePageController) createFormPage(customers []*domain.Customer, values map[string]string, fieldErrors map[string][]string, banner string) web.InvoiceFormPage {
	if values == nil {
		values = map[string]string{}
	}
	return web.InvoiceFormPage{
		Title: "Create Invoice",
		Breadcrumbs: []domain.Breadcrumb{
			{Label: "Invoices", Href: invoicesPath},
			{Label: "Create Invoice", Href: invoicesPath + "/create", Active: true},
		},
		Customers: customers,
		Action:    invoicesPath,
		Values:    values,
		Errors:    fieldErrors,
		Banner:    banner,
	}
}

func (c *InvoicePageController) editFormPage(id string, invoice *domain.Invoice, customers []*domain.Customer, values map[string]string, fieldErrors map[string][]string, banner string) web.InvoiceFormPage {
	if values == nil {
		values = map[string]string{}
	}
	editPath := fmt.Sprintf("%s/%s/edit", invoicesPath, id)
	return web.InvoiceFormPage{
		Title: "Edit Invoice",
		Breadcrumbs: []domain.Breadcrumb{
			{Label: "Invoices", Href: invoicesPath},
			{Label: "Edit Invoice", Href: editPath, Active: true},
		},
		Invoice:   invoice,
		Customers: customers,
		Action:    editPath,
		Values:    values,
		Errors:    fieldErrors,
		Banner:    banner,
	}
}

func (c *InvoicePageController) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Renderer.Render(w, page, data); err != nil {
		c.Logger.ErrorContext(r.Context(), "render failed", "page", page, "err", err)
	}
}

func (c *InvoicePageController) notFound(w http.ResponseWriter, r *http.Request, id string) {
	c.renderPage(w, r, http.StatusNotFound, "not_found.html", web.NotFoundPage{
		Title:   "Not Found",
		Message: fmt.Sprintf("Could not find invoice %s.", id),
	})
}

func (c *InvoicePageController) serverError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// invoiceFormInput extracts the consumed invoice fields from the submitted
// form. Only customerId, amount, and status are read; anything else in the
// payload is ignored.
func invoiceFormInput(r *http.Request) (domain.InvoiceInput, error) {
	if err := r.ParseForm(); err != nil {
		return domain.InvoiceInput{}, err
	}
	return domain.InvoiceInput{
		CustomerID: r.PostFormValue("customerId"),
		Amount:     r.PostFormValue("amount"),
		Status:     r.PostFormValue("status"),
	}, nil
}

func submittedValues(input domain.InvoiceInput) map[string]string {
	return map[string]string{
		"customerId": input.CustomerID,
		"amount":     input.Amount,
		"status":     input.Status,
	}
}
