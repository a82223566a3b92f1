package repository

import (
	"context"
)

// Person represents a registrant stored in the people table.
type Person struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	Document   string `db:"document"`
	PostalCode string `db:"postal_code"`
	Address    string `db:"address"`
	Phone      string `db:"phone"`
	Active     bool   `db:"active"`
}

// Order describes the sort applied to list and export queries.
type Order struct {
	Column string
	Sort   string
}

// ListParams contains pagination and sorting for the people listing.
type ListParams struct {
	Offset int
	Limit  int
	Order  Order
}

// CreateParams contains parameters for inserting a new person.
type CreateParams struct {
	Name       string
	Document   string
	PostalCode string
	Address    string
	Phone      string
	Active     bool
}

// PersonReader provides read operations for people.
type PersonReader interface {
	// GetByID returns the person with the given ID, or apperr.NotFound.
	GetByID(ctx context.Context, id int64) (Person, error)
	// FindByDocument returns the person holding the given document, or nil
	// when no record holds it.
	FindByDocument(ctx context.Context, document string) (*Person, error)
	// List returns one page of people plus the total count ignoring pagination.
	List(ctx context.Context, params ListParams) ([]Person, int, error)
	// ListAll returns the entire roster, active and inactive, ordered.
	ListAll(ctx context.Context, order Order) ([]Person, error)
}

// PersonWriter provides write operations for people.
type PersonWriter interface {
	Create(ctx context.Context, params CreateParams) (Person, error)
	// Update overwrites every mutable field of the target record.
	Update(ctx context.Context, person Person) (Person, error)
}

// Repository combines all people repository operations.
type Repository interface {
	PersonReader
	PersonWriter
}
