// Package transport defines the HTTP request shapes for the client
// directory module.
package transport

// CreateClientRequest is the payload for creating a client.
type CreateClientRequest struct {
	FirstName string  `json:"firstName" validate:"required,min=1,max=120"`
	LastName  string  `json:"lastName" validate:"required,min=1,max=120"`
	Email     string  `json:"email" validate:"required,email,max=254"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Notes     *string `json:"notes" validate:"omitempty,max=4000"`
}

// UpdateClientRequest is the payload for updating a client. All fields
// are optional; omitted fields are left unchanged.
type UpdateClientRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=120"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=120"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Notes     *string `json:"notes" validate:"omitempty,max=4000"`
}

// ListClientsQuery pages and searches the directory.
type ListClientsQuery struct {
	Search string `form:"search" validate:"omitempty,max=120"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset int    `form:"offset" validate:"omitempty,min=0"`
}
