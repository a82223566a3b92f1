package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"registry_backend/platform/apperr"
)

const personNotFoundMessage = "person not found"

const personColumns = "id, name, document, postal_code, address, phone, active"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new people repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a person by ID.
func (r *Repo) GetByID(ctx context.Context, id int64) (Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE id = $1`

	var p Person
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Document, &p.PostalCode, &p.Address, &p.Phone, &p.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Person{}, apperr.NotFound(personNotFoundMessage)
		}
		return Person{}, fmt.Errorf("get person by id: %w", err)
	}

	return p, nil
}

// FindByDocument retrieves the person holding the given document.
// Returns nil when no record holds it; the caller decides whether absence
// is an error.
func (r *Repo) FindByDocument(ctx context.Context, document string) (*Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE document = $1`

	var p Person
	err := r.pool.QueryRow(ctx, query, document).Scan(
		&p.ID, &p.Name, &p.Document, &p.PostalCode, &p.Address, &p.Phone, &p.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find person by document: %w", err)
	}

	return &p, nil
}

// List retrieves one page of people ordered per params, plus the total count
// of records ignoring pagination.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Person, int, error) {
	orderClause, err := buildOrderClause(params.Order)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM people`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count people: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+personColumns+`
		FROM people
		ORDER BY %s
		LIMIT $1 OFFSET $2`, orderClause)

	rows, err := r.pool.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	items, err := scanPeople(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListAll retrieves the entire roster (active and inactive), ordered.
func (r *Repo) ListAll(ctx context.Context, order Order) ([]Person, error) {
	orderClause, err := buildOrderClause(order)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT `+personColumns+`
		FROM people
		ORDER BY %s`, orderClause)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all people: %w", err)
	}
	defer rows.Close()

	return scanPeople(rows)
}

// Create inserts a new person.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Person, error) {
	query := `
		INSERT INTO people (name, document, postal_code, address, phone, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + personColumns

	var p Person
	err := r.pool.QueryRow(ctx, query,
		params.Name, params.Document, params.PostalCode, params.Address, params.Phone, params.Active,
	).Scan(
		&p.ID, &p.Name, &p.Document, &p.PostalCode, &p.Address, &p.Phone, &p.Active,
	)
	if err != nil {
		return Person{}, fmt.Errorf("create person: %w", err)
	}

	return p, nil
}

// Update overwrites every mutable field of the target record.
func (r *Repo) Update(ctx context.Context, person Person) (Person, error) {
	query := `
		UPDATE people SET
			name = $2,
			document = $3,
			postal_code = $4,
			address = $5,
			phone = $6,
			active = $7,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + personColumns

	var p Person
	err := r.pool.QueryRow(ctx, query,
		person.ID, person.Name, person.Document, person.PostalCode, person.Address, person.Phone, person.Active,
	).Scan(
		&p.ID, &p.Name, &p.Document, &p.PostalCode, &p.Address, &p.Phone, &p.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Person{}, apperr.NotFound(personNotFoundMessage)
		}
		return Person{}, fmt.Errorf("update person: %w", err)
	}

	return p, nil
}

// buildOrderClause maps an API-level order onto a SQL ORDER BY fragment.
// Columns and direction are whitelisted; anything else is rejected before
// reaching the query.
func buildOrderClause(order Order) (string, error) {
	column, ok := sortColumns[order.Column]
	if !ok {
		return "", apperr.BadRequest("invalid sort column")
	}

	switch order.Sort {
	case "asc":
		return column + " ASC", nil
	case "desc":
		return column + " DESC", nil
	default:
		return "", apperr.BadRequest("invalid sort direction")
	}
}

var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"document":   "document",
	"postalCode": "postal_code",
	"address":    "address",
	"phone":      "phone",
	"active":     "active",
}

// scanPeople is a helper to scan multiple rows into a Person slice.
func scanPeople(rows pgx.Rows) ([]Person, error) {
	var results []Person

	for rows.Next() {
		var p Person
		err := rows.Scan(
			&p.ID, &p.Name, &p.Document, &p.PostalCode, &p.Address, &p.Phone, &p.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}

	return results, nil
}
