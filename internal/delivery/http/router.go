package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"invoicedash/internal/delivery/http/controllers"
	"invoicedash/internal/delivery/http/middleware"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(pages *controllers.InvoicePageController, api *controllers.InvoiceAPIController, metrics *middleware.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, metrics.Instrument(pattern, h))
	}

	// Server-rendered pages
	handle("GET /dashboard/invoices", pages.ListInvoices)
	handle("GET /dashboard/invoices/create", pages.NewInvoiceForm)
	handle("POST /dashboard/invoices", pages.CreateInvoice)
	handle("GET /dashboard/invoices/{id}/edit", pages.EditInvoicePage)
	handle("POST /dashboard/invoices/{id}/edit", pages.UpdateInvoice)
	handle("POST /dashboard/invoices/{id}/delete", pages.DeleteInvoice)

	mux.Handle("GET /{$}", http.RedirectHandler("/dashboard/invoices", http.StatusSeeOther))

	// JSON API
	handle("GET /api/invoices", api.ListInvoices)
	handle("POST /api/invoices", api.CreateInvoice)
	handle("GET /api/invoices/{id}", api.GetInvoice)
	handle("PUT /api/invoices/{id}", api.UpdateInvoice)
	handle("DELETE /api/invoices/{id}", api.DeleteInvoice)
	handle("GET /api/customers", api.ListCustomers)

	// Observability and docs
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
