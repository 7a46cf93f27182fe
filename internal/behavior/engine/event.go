package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a derived behavior event.
type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingCompleted EventType = "booking_completed"
	EventBookingCancelled EventType = "booking_cancelled"
	EventBookingNoShow    EventType = "booking_no_show"
	// EventBookingRefunded is part of the closed event vocabulary but is
	// never emitted by DeriveEvents: a refunded payment is captured through
	// score/tag weighting on the cancellation and through the refund
	// re-engagement recommendation, not as a separate event. Keeping the
	// constant documents the full vocabulary for consumers.
	EventBookingRefunded EventType = "booking_refunded"
)

// CancelActor identifies who cancelled an appointment.
type CancelActor string

const (
	CancelledByClient CancelActor = "client"
	CancelledByStaff  CancelActor = "staff"
	CancelledBySystem CancelActor = "system"
)

// AppointmentStatus mirrors the appointment collaborator's status values.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// PaymentStatus mirrors the appointment collaborator's payment values.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// AppointmentRecord is an immutable snapshot of one appointment row, the
// engine's sole input for event derivation.
type AppointmentRecord struct {
	ID            uuid.UUID
	ClientID      uuid.UUID
	EmployeeID    *uuid.UUID
	ServiceID     uuid.UUID
	StartAt       time.Time
	EndAt         time.Time
	Status        AppointmentStatus
	PaymentStatus PaymentStatus
	CreatedAt     *time.Time
	CancelledAt   *time.Time
	CancelledBy   CancelActor
	CancelReason  *string
}

// Event is an immutable behavior fact derived from an appointment's
// lifecycle state. Events are never persisted independently; they are a
// read-only projection recomputed from appointment rows on every
// evaluation, so drift between source of truth and projection is
// impossible.
type Event struct {
	// ID is deterministic ("<appointmentID>:<type>") so that re-deriving
	// from the same appointment snapshot yields byte-identical events.
	ID            string
	ClientID      uuid.UUID
	Type          EventType
	Timestamp     time.Time
	AppointmentID uuid.UUID
	CancelledBy   CancelActor
	// HoursBeforeAppointment is set on cancellation events: the lead time
	// between cancellation and the appointment start, clamped to >= 0.
	HoursBeforeAppointment *float64
}

// createdAtProxyOffset approximates a booking's creation time when the
// record carries no creation timestamp: startAt minus this fixed offset.
// One week is the clinic's typical booking horizon.
const createdAtProxyOffset = 7 * 24 * time.Hour

// DeriveEvents maps appointment records (any order) into a normalized
// sequence of behavior events sorted ascending by timestamp. It is a pure
// function of its input: same snapshot in, byte-identical events out.
//
// Rules:
//   - every appointment emits booking_created at its creation proxy
//     (createdAt when present, otherwise startAt - 7 days), so that the
//     scheduled count reflects every booking in the window;
//   - completed appointments additionally emit booking_completed at startAt;
//   - cancelled appointments emit booking_cancelled at cancelledAt
//     (falling back to startAt) carrying the cancellation lead time;
//   - no-show appointments emit booking_no_show at startAt.
func DeriveEvents(appointments []AppointmentRecord) []Event {
	events := make([]Event, 0, len(appointments)*2)

	for _, appt := range appointments {
		events = append(events, Event{
			ID:            eventID(appt.ID, EventBookingCreated),
			ClientID:      appt.ClientID,
			Type:          EventBookingCreated,
			Timestamp:     creationProxy(appt),
			AppointmentID: appt.ID,
		})

		switch appt.Status {
		case StatusCompleted:
			events = append(events, Event{
				ID:            eventID(appt.ID, EventBookingCompleted),
				ClientID:      appt.ClientID,
				Type:          EventBookingCompleted,
				Timestamp:     appt.StartAt,
				AppointmentID: appt.ID,
			})
		case StatusCancelled:
			cancelledAt := appt.StartAt
			if appt.CancelledAt != nil && !appt.CancelledAt.IsZero() {
				cancelledAt = *appt.CancelledAt
			}
			lead := appt.StartAt.Sub(cancelledAt).Hours()
			if lead < 0 {
				lead = 0
			}
			events = append(events, Event{
				ID:                     eventID(appt.ID, EventBookingCancelled),
				ClientID:               appt.ClientID,
				Type:                   EventBookingCancelled,
				Timestamp:              cancelledAt,
				AppointmentID:          appt.ID,
				CancelledBy:            appt.CancelledBy,
				HoursBeforeAppointment: &lead,
			})
		case StatusNoShow:
			events = append(events, Event{
				ID:            eventID(appt.ID, EventBookingNoShow),
				ClientID:      appt.ClientID,
				Type:          EventBookingNoShow,
				Timestamp:     appt.StartAt,
				AppointmentID: appt.ID,
			})
		}
	}

	// Total order independent of input order: timestamp, then appointment
	// id, then type. Required for idempotent re-derivation.
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		if events[i].AppointmentID != events[j].AppointmentID {
			return events[i].AppointmentID.String() < events[j].AppointmentID.String()
		}
		return events[i].Type < events[j].Type
	})

	return events
}

func creationProxy(appt AppointmentRecord) time.Time {
	if appt.CreatedAt != nil && !appt.CreatedAt.IsZero() {
		return *appt.CreatedAt
	}
	return appt.StartAt.Add(-createdAtProxyOffset)
}

func eventID(appointmentID uuid.UUID, eventType EventType) string {
	return fmt.Sprintf("%s:%s", appointmentID, eventType)
}
