package repository

import (
	"context"

	"github.com/google/uuid"
)

// Service is the catalog model for one bookable clinic service.
type Service struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
	PriceCents      int       `json:"priceCents"`
	Active          bool      `json:"active"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

// CreateServiceParams carries the fields for creating a service.
type CreateServiceParams struct {
	Name            string
	Description     *string
	DurationMinutes int
	PriceCents      int
	Active          bool
}

// UpdateServiceParams carries the fields for updating a service.
// Nil fields are left unchanged.
type UpdateServiceParams struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	PriceCents      *int
	Active          *bool
}

// Repository defines the storage operations for the service catalog.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Service, error)
	List(ctx context.Context, activeOnly bool) ([]Service, error)
	Create(ctx context.Context, params CreateServiceParams) (Service, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateServiceParams) (Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
