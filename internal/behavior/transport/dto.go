// Package transport defines the HTTP request and response shapes for the
// behavior module.
package transport

import (
	"time"

	"clinicdesk/internal/behavior/engine"
	"clinicdesk/internal/behavior/service"
)

// ProfileQuery carries the optional evaluation overrides on the profile
// endpoint. Omitted values fall back to the configured defaults.
type ProfileQuery struct {
	WindowDays       *int  `form:"windowDays" validate:"omitempty,min=1,max=730"`
	RecencyWeighting *bool `form:"recencyWeighting"`
}

// EventsResponse wraps the derived event stream for one client.
type EventsResponse struct {
	ClientID string         `json:"clientId"`
	Events   []engine.Event `json:"events"`
	Count    int            `json:"count"`
}

// ProfileResponse wraps one evaluated behavior profile.
type ProfileResponse struct {
	Profile engine.Profile `json:"profile"`
}

// RecommendationsResponse wraps the batch recommendation result.
type RecommendationsResponse struct {
	Recommendations []engine.Recommendation `json:"recommendations"`
	Failures        []service.ClientFailure `json:"failures,omitempty"`
	EvaluatedAt     time.Time               `json:"evaluatedAt"`
	Count           int                     `json:"count"`
}
