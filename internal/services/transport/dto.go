// Package transport defines the HTTP request shapes for the service
// catalog module.
package transport

// CreateServiceRequest is the payload for creating a service.
type CreateServiceRequest struct {
	Name            string  `json:"name" validate:"required,min=2,max=120"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	DurationMinutes int     `json:"durationMinutes" validate:"required,min=5,max=480"`
	PriceCents      int     `json:"priceCents" validate:"min=0"`
	Active          *bool   `json:"active"`
}

// UpdateServiceRequest is the payload for updating a service. All fields
// are optional; omitted fields are left unchanged.
type UpdateServiceRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=120"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	DurationMinutes *int    `json:"durationMinutes" validate:"omitempty,min=5,max=480"`
	PriceCents      *int    `json:"priceCents" validate:"omitempty,min=0"`
	Active          *bool   `json:"active"`
}

// ListServicesQuery filters the service listing.
type ListServicesQuery struct {
	ActiveOnly bool `form:"activeOnly"`
}
