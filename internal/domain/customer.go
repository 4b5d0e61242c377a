package domain

import "context"

// Customer is a read-only foreign entity: invoices reference customers, but
// customers are never created, updated, or deleted here.
// swagger:model Customer
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// CustomerRepository defines read access to the customer store.
type CustomerRepository interface {
	List(ctx context.Context) ([]*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
}
