// Package web renders the server-side HTML pages from embedded templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"invoicedash/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// pages are the top-level templates; each is parsed together with the layout
// and shared partials into its own template set.
var pages = []string{
	"invoices.html",
	"invoice_create.html",
	"invoice_edit.html",
	"not_found.html",
}

var funcs = template.FuncMap{
	// amount formats minor units as a major-unit decimal for display.
	"amount": func(cents int64) string {
		return fmt.Sprintf("%.2f", float64(cents)/100)
	},
}

// Renderer renders named pages into the shared layout.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses all embedded page templates. It fails fast on a broken
// template rather than at request time.
func NewRenderer() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/breadcrumbs.html",
			"templates/invoice_form.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}
	return &Renderer{templates: templates}, nil
}

// Render executes the named page into w.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// InvoicesPage is the view data for the invoice listing.
type InvoicesPage struct {
	Title    string
	Invoices []*domain.Invoice
}

// InvoiceFormPage is the view data for the create and edit forms. Values
// holds the submitted raw input so a failed submit re-renders what the user
// typed; Errors carries per-field validation messages and Banner a
// storage-failure notice.
type InvoiceFormPage struct {
	Title       string
	Breadcrumbs []domain.Breadcrumb
	Invoice     *domain.Invoice
	Customers   []*domain.Customer
	Action      string
	Values      map[string]string
	Errors      map[string][]string
	Banner      string
}

// NotFoundPage is the view data for the 404 page.
type NotFoundPage struct {
	Title   string
	Message string
}
