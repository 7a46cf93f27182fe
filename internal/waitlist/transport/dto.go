// Package transport defines the HTTP request shapes for the waitlist
// module.
package transport

import "github.com/google/uuid"

// CreateEntryRequest is the payload for joining a waitlist.
type CreateEntryRequest struct {
	ClientID  uuid.UUID `json:"clientId" validate:"required"`
	ServiceID uuid.UUID `json:"serviceId" validate:"required"`
	Priority  *int      `json:"priority" validate:"omitempty,min=0,max=10"`
	Note      *string   `json:"note" validate:"omitempty,max=2000"`
}

// ListEntriesQuery filters the waitlist listing.
type ListEntriesQuery struct {
	ServiceID *uuid.UUID `form:"serviceId"`
}

// SuggestionsQuery requests ranked candidates for a freed slot.
type SuggestionsQuery struct {
	ServiceID uuid.UUID `form:"serviceId" validate:"required"`
	Limit     int       `form:"limit" validate:"omitempty,min=1,max=100"`
}
