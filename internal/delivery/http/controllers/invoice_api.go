package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"invoicedash/internal/delivery/http/helpers"
	"invoicedash/internal/domain"
)

// InvoiceRequest is the request body for creating or updating an invoice.
// Amount is the major-unit decimal as submitted (e.g. "250.00"); the server
// stores minor units. Id and date are never part of the request.
type InvoiceRequest struct {
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
}

func (req InvoiceRequest) input() domain.InvoiceInput {
	return domain.InvoiceInput{
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		Status:     req.Status,
	}
}

// InvoiceSuccessResponse is the success envelope for single-invoice endpoints.
type InvoiceSuccessResponse struct {
	Data  *domain.Invoice   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// InvoiceListSuccessResponse is the success envelope for GET /api/invoices.
type InvoiceListSuccessResponse struct {
	Data  []*domain.Invoice `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CustomerListSuccessResponse is the success envelope for GET /api/customers.
type CustomerListSuccessResponse struct {
	Data  []*domain.Customer `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// InvoiceAPIController serves the JSON invoice API.
type InvoiceAPIController struct {
	Logger  *slog.Logger
	Service domain.InvoiceService
}

func NewInvoiceAPIController(logger *slog.Logger, svc domain.InvoiceService) *InvoiceAPIController {
	return &InvoiceAPIController{
		Logger:  logger,
		Service: svc,
	}
}

// ListInvoices godoc
// @Summary List invoices
// @Description Returns all invoices, newest issue date first.
// @Tags invoices
// @Produce json
// @Success 200 {object} controllers.InvoiceListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/invoices [get]
func (c *InvoiceAPIController) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := c.Service.List(r.Context())
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invoices)
}

// CreateInvoice godoc
// @Summary Create an invoice
// @Description Validates the input, stores the amount in minor units, assigns the issue date server-side, and returns the created invoice.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body InvoiceRequest true "Invoice data"
// @Success 201 {object} controllers.InvoiceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, error.fields set on validation failure"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/invoices [post]
func (c *InvoiceAPIController) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req InvoiceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	invoice, err := c.Service.Create(r.Context(), req.input())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, invoice)
}

// GetInvoice godoc
// @Summary Get an invoice by ID
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} controllers.InvoiceSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/invoices/{id} [get]
func (c *InvoiceAPIController) GetInvoice(w http.ResponseWriter, r *http.Request) {
	data, err := c.Service.EditPageData(r.Context(), r.PathValue("id"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, data.Invoice)
}

// UpdateInvoice godoc
// @Summary Update an invoice
// @Description Replaces customer, amount, and status. The id and issue date are immutable.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param invoice body InvoiceRequest true "Invoice data"
// @Success 200 {object} controllers.InvoiceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, error.fields set on validation failure"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/invoices/{id} [put]
func (c *InvoiceAPIController) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var req InvoiceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	invoice, err := c.Service.Update(r.Context(), r.PathValue("id"), req.input())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invoice)
}

// DeleteInvoice godoc
// @Summary Delete an invoice
// @Description Deletes the invoice. Deleting an already-deleted invoice returns 404.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/invoices/{id} [delete]
func (c *InvoiceAPIController) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCustomers godoc
// @Summary List customers
// @Description Returns the full customer list, ordered by name. Customers are read-only.
// @Tags customers
// @Produce json
// @Success 200 {object} controllers.CustomerListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/customers [get]
func (c *InvoiceAPIController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := c.Service.Customers(r.Context())
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, customers)
}

func (c *InvoiceAPIController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		helpers.WriteJSONFieldErrors(w, verr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invoice not found")
	default:
		c.internalError(w, r, err)
	}
}

func (c *InvoiceAPIController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}
