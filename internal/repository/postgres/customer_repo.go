package postgres

import (
	"context"
	"database/sql"
	"errors"

	"invoicedash/internal/domain"
)

type customerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) domain.CustomerRepository {
	return &customerRepository{
		DB: db,
	}
}

func (r *customerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	query := `
		SELECT id, name, email, image_url
		FROM customers
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		c := &domain.Customer{}
		var imageNull sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &imageNull); err != nil {
			return nil, err
		}
		if imageNull.Valid {
			c.ImageURL = imageNull.String
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `
		SELECT id, name, email, image_url
		FROM customers
		WHERE id = $1
	`
	c := &domain.Customer{}
	var imageNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &imageNull)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if imageNull.Valid {
		c.ImageURL = imageNull.String
	}
	return c, nil
}
