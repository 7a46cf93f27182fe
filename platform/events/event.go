// Package events carries the in-process publish/subscribe plumbing that
// lets the clinic modules react to each other (bookings, status changes,
// profile evaluations) without importing each other. Event payloads live
// with the domains; this package only defines the contract.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event payload.
type Event interface {
	// EventName is the stable routing key subscribers register under,
	// e.g. "appointments.status_changed".
	EventName() string
	// OccurredAt reports when the event happened.
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp half of the Event contract; domain
// events embed it and add their own EventName.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps a BaseEvent with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events routed to it by name.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes published events to the handlers subscribed under their name.
type Bus interface {
	// Publish fans the event out without waiting for handlers; delivery
	// failures are the bus's problem, never the publisher's.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers to every handler in turn and reports the first
	// failure.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an event name as returned by
	// Event.EventName.
	Subscribe(eventName string, handler Handler)
}
