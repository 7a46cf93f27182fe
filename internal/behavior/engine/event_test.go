package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	clientA = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	clientB = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")

	serviceMassage = uuid.MustParse("5e111111-0000-0000-0000-000000000001")
)

func apptID(n byte) uuid.UUID {
	id := uuid.UUID{}
	id[0] = 0xA0
	id[15] = n
	return id
}

func scheduledAppt(n byte, clientID uuid.UUID, startAt time.Time) AppointmentRecord {
	return AppointmentRecord{
		ID:        apptID(n),
		ClientID:  clientID,
		ServiceID: serviceMassage,
		StartAt:   startAt,
		EndAt:     startAt.Add(time.Hour),
		Status:    StatusScheduled,
	}
}

func completedAppt(n byte, clientID uuid.UUID, startAt time.Time) AppointmentRecord {
	a := scheduledAppt(n, clientID, startAt)
	a.Status = StatusCompleted
	return a
}

func cancelledAppt(n byte, clientID uuid.UUID, startAt time.Time, cancelledAt time.Time) AppointmentRecord {
	a := scheduledAppt(n, clientID, startAt)
	a.Status = StatusCancelled
	a.CancelledAt = &cancelledAt
	a.CancelledBy = CancelledByClient
	return a
}

func noShowAppt(n byte, clientID uuid.UUID, startAt time.Time) AppointmentRecord {
	a := scheduledAppt(n, clientID, startAt)
	a.Status = StatusNoShow
	return a
}

func TestDeriveEventsEmitsCreatedPlusLifecycle(t *testing.T) {
	start := testNow.Add(-48 * time.Hour)
	cancelledAt := start.Add(-30 * time.Hour)

	events := DeriveEvents([]AppointmentRecord{
		completedAppt(1, clientA, start),
		cancelledAppt(2, clientA, start.Add(2*time.Hour), cancelledAt),
	})

	if len(events) != 4 {
		t.Fatalf("expected 4 events (2 created + 2 lifecycle), got %d", len(events))
	}

	byType := map[EventType]int{}
	for _, ev := range events {
		byType[ev.Type]++
	}
	if byType[EventBookingCreated] != 2 {
		t.Fatalf("expected 2 booking_created events, got %d", byType[EventBookingCreated])
	}
	if byType[EventBookingCompleted] != 1 || byType[EventBookingCancelled] != 1 {
		t.Fatalf("unexpected lifecycle events: %v", byType)
	}

	for _, ev := range events {
		if ev.Type != EventBookingCancelled {
			continue
		}
		if ev.HoursBeforeAppointment == nil {
			t.Fatalf("cancellation event missing lead hours")
		}
		if got := *ev.HoursBeforeAppointment; got != 32 {
			t.Fatalf("expected 32h lead, got %v", got)
		}
		if ev.CancelledBy != CancelledByClient {
			t.Fatalf("expected cancelledBy=client, got %q", ev.CancelledBy)
		}
	}
}

func TestDeriveEventsSortedAndOrderIndependent(t *testing.T) {
	appts := []AppointmentRecord{
		completedAppt(3, clientA, testNow.Add(-10*24*time.Hour)),
		noShowAppt(1, clientA, testNow.Add(-40*24*time.Hour)),
		completedAppt(2, clientA, testNow.Add(-20*24*time.Hour)),
	}
	reversed := []AppointmentRecord{appts[2], appts[1], appts[0]}

	a := DeriveEvents(appts)
	b := DeriveEvents(reversed)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("derivation depends on input order:\n%v\nvs\n%v", a, b)
	}
	for i := 1; i < len(a); i++ {
		if a[i].Timestamp.Before(a[i-1].Timestamp) {
			t.Fatalf("events not sorted ascending at index %d", i)
		}
	}
}

func TestDeriveEventsIdempotent(t *testing.T) {
	appts := []AppointmentRecord{
		completedAppt(1, clientA, testNow.Add(-5*24*time.Hour)),
		cancelledAppt(2, clientA, testNow.Add(-3*24*time.Hour), testNow.Add(-4*24*time.Hour)),
	}

	first := DeriveEvents(appts)
	second := DeriveEvents(appts)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-derivation from the same snapshot differs")
	}
	for i, ev := range first {
		if ev.ID != second[i].ID {
			t.Fatalf("event IDs not deterministic: %q vs %q", ev.ID, second[i].ID)
		}
	}
}

func TestDeriveEventsCreationProxy(t *testing.T) {
	start := testNow.Add(24 * time.Hour)
	created := testNow.Add(-2 * 24 * time.Hour)

	withCreatedAt := scheduledAppt(1, clientA, start)
	withCreatedAt.CreatedAt = &created
	withoutCreatedAt := scheduledAppt(2, clientA, start)

	events := DeriveEvents([]AppointmentRecord{withCreatedAt, withoutCreatedAt})
	if len(events) != 2 {
		t.Fatalf("expected 2 created events, got %d", len(events))
	}

	for _, ev := range events {
		switch ev.AppointmentID {
		case withCreatedAt.ID:
			if !ev.Timestamp.Equal(created) {
				t.Fatalf("expected createdAt timestamp, got %v", ev.Timestamp)
			}
		case withoutCreatedAt.ID:
			want := start.Add(-createdAtProxyOffset)
			if !ev.Timestamp.Equal(want) {
				t.Fatalf("expected proxy %v, got %v", want, ev.Timestamp)
			}
		}
	}
}

func TestDeriveEventsClampsNegativeLead(t *testing.T) {
	start := testNow.Add(-48 * time.Hour)
	// Cancelled after the appointment already started.
	lateCancel := cancelledAppt(1, clientA, start, start.Add(3*time.Hour))

	events := DeriveEvents([]AppointmentRecord{lateCancel})
	for _, ev := range events {
		if ev.Type != EventBookingCancelled {
			continue
		}
		if *ev.HoursBeforeAppointment != 0 {
			t.Fatalf("expected lead clamped to 0, got %v", *ev.HoursBeforeAppointment)
		}
	}
}
