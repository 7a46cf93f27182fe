package repository

import (
	"context"

	"github.com/google/uuid"
)

// Client is the directory model for one clinic client.
type Client struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	// Phone is stored in E.164 form.
	Phone     *string `json:"phone,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// CreateClientParams carries the fields for creating a client.
type CreateClientParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Notes     *string
}

// UpdateClientParams carries the fields for updating a client.
// Nil fields are left unchanged.
type UpdateClientParams struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Notes     *string
}

// ListClientsParams pages through the directory.
type ListClientsParams struct {
	Search string
	Limit  int
	Offset int
}

// Repository defines the storage operations for the client directory.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Client, error)
	List(ctx context.Context, params ListClientsParams) ([]Client, int, error)
	ListAll(ctx context.Context) ([]Client, error)
	Create(ctx context.Context, params CreateClientParams) (Client, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateClientParams) (Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
