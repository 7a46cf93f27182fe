// Package events defines the clinic's domain events. The bus and handler
// machinery live in platform/events; the aliases below let modules depend
// on this package alone for both the payloads and the contract.
package events

import (
	"time"

	"clinicdesk/platform/events"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Appointment Domain Events
// =============================================================================

// AppointmentBooked is published when a new appointment is created.
type AppointmentBooked struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	ClientID      uuid.UUID `json:"clientId"`
	ServiceID     uuid.UUID `json:"serviceId"`
	StartAt       time.Time `json:"startAt"`
}

func (e AppointmentBooked) EventName() string { return "appointments.booked" }

// AppointmentStatusChanged is published on every appointment status transition.
// The behavior engine's downstream consumers (notification, scheduler) use it
// to react to cancellations and no-shows without polling.
type AppointmentStatusChanged struct {
	BaseEvent
	AppointmentID uuid.UUID  `json:"appointmentId"`
	ClientID      uuid.UUID  `json:"clientId"`
	ServiceID     uuid.UUID  `json:"serviceId"`
	OldStatus     string     `json:"oldStatus"`
	NewStatus     string     `json:"newStatus"`
	StartAt       time.Time  `json:"startAt"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`
}

func (e AppointmentStatusChanged) EventName() string { return "appointments.status_changed" }

// =============================================================================
// Waitlist Domain Events
// =============================================================================

// WaitlistEntryAdded is published when a client joins a service waitlist.
type WaitlistEntryAdded struct {
	BaseEvent
	EntryID   uuid.UUID `json:"entryId"`
	ClientID  uuid.UUID `json:"clientId"`
	ServiceID uuid.UUID `json:"serviceId"`
}

func (e WaitlistEntryAdded) EventName() string { return "waitlist.entry_added" }

// =============================================================================
// Behavior Domain Events
// =============================================================================

// ProfileEvaluated is published after each behavior profile evaluation.
// It carries previous and new scores plus the evaluation reason so that
// subscribers can persist an audit trail; the engine itself stores nothing.
type ProfileEvaluated struct {
	BaseEvent
	ClientID            uuid.UUID `json:"clientId"`
	PreviousReliability *float64  `json:"previousReliability,omitempty"`
	PreviousEngagement  *float64  `json:"previousEngagement,omitempty"`
	Reliability         float64   `json:"reliability"`
	Engagement          float64   `json:"engagement"`
	Tags                []string  `json:"tags"`
	PreferredChannel    string    `json:"preferredChannel"`
	Reason              string    `json:"reason"`
	EvaluatedAt         time.Time `json:"evaluatedAt"`
}

func (e ProfileEvaluated) EventName() string { return "behavior.profile_evaluated" }
