package transport

// Order describes the requested sort for list and export queries.
type Order struct {
	Column string `json:"column" form:"column" validate:"required"`
	Sort   string `json:"sort" form:"sort" validate:"required,oneof=asc desc"`
}

// CreatePersonRequest contains data for registering a new person.
type CreatePersonRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Document   string `json:"document" validate:"required,min=1,max=50"`
	PostalCode string `json:"postalCode" validate:"omitempty,max=20"`
	Address    string `json:"address" validate:"omitempty,max=300"`
	Phone      string `json:"phone" validate:"omitempty,max=30"`
	Active     *bool  `json:"active,omitempty"`
}

// UpdatePersonRequest contains the full replacement state for a person.
// The ID must match the target record's ID.
type UpdatePersonRequest struct {
	ID         int64  `json:"id" validate:"required,min=1"`
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Document   string `json:"document" validate:"required,min=1,max=50"`
	PostalCode string `json:"postalCode" validate:"omitempty,max=20"`
	Address    string `json:"address" validate:"omitempty,max=300"`
	Phone      string `json:"phone" validate:"omitempty,max=30"`
	Active     bool   `json:"active"`
}

// ListPeopleRequest contains pagination and sorting for the people listing.
type ListPeopleRequest struct {
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	Column   string `form:"column"`
	Sort     string `form:"sort" validate:"omitempty,oneof=asc desc"`
}

// ExportRequest triggers the roster PDF export pipeline.
type ExportRequest struct {
	UserID int64 `json:"userId" validate:"required,min=1"`
	Order  Order `json:"order" validate:"required"`
}

// PersonResponse represents a person in API responses.
type PersonResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Document   string `json:"document"`
	PostalCode string `json:"postalCode"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Active     bool   `json:"active"`
}

// PersonListResponse wraps a page of people. Count is the total number of
// records ignoring pagination. Message is always null on the success path;
// it is part of the response contract, not decoration.
type PersonListResponse struct {
	Data    []PersonResponse `json:"data"`
	Count   int              `json:"count"`
	Message *string          `json:"message"`
}

// MutationResponse wraps the result of a state-changing operation together
// with a human-readable status message.
type MutationResponse struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}
