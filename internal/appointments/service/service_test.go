package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"clinicdesk/internal/appointments/repository"
	"clinicdesk/internal/appointments/transport"
	domainevents "clinicdesk/internal/events"
	"clinicdesk/platform/apperr"
	"clinicdesk/platform/logger"
)

type fakeRepo struct {
	byID       map[uuid.UUID]repository.Appointment
	overlaps   bool
	lastStatus repository.StatusChangeParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]repository.Appointment)}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Appointment, error) {
	appt, ok := f.byID[id]
	if !ok {
		return repository.Appointment{}, apperr.NotFound("appointment not found")
	}
	return appt, nil
}

func (f *fakeRepo) List(context.Context, repository.ListAppointmentsParams) ([]repository.Appointment, error) {
	return nil, nil
}

func (f *fakeRepo) ListByClient(context.Context, uuid.UUID) ([]repository.Appointment, error) {
	return nil, nil
}

func (f *fakeRepo) ListAll(context.Context) ([]repository.Appointment, error) {
	return nil, nil
}

func (f *fakeRepo) ListStartingBetween(context.Context, time.Time, time.Time) ([]repository.Appointment, error) {
	return nil, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateAppointmentParams) (repository.Appointment, error) {
	appt := repository.Appointment{
		ID:            uuid.New(),
		ClientID:      params.ClientID,
		EmployeeID:    params.EmployeeID,
		ServiceID:     params.ServiceID,
		StartAt:       params.StartAt,
		EndAt:         params.EndAt,
		Status:        "scheduled",
		PaymentStatus: params.PaymentStatus,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	f.byID[appt.ID] = appt
	return appt, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateAppointmentParams) (repository.Appointment, error) {
	appt := f.byID[id]
	if params.StartAt != nil {
		appt.StartAt = *params.StartAt
	}
	if params.EndAt != nil {
		appt.EndAt = *params.EndAt
	}
	if params.PaymentStatus != nil {
		appt.PaymentStatus = *params.PaymentStatus
	}
	f.byID[id] = appt
	return appt, nil
}

func (f *fakeRepo) ChangeStatus(_ context.Context, id uuid.UUID, params repository.StatusChangeParams) (repository.Appointment, error) {
	f.lastStatus = params
	appt := f.byID[id]
	appt.Status = params.Status
	appt.CancelledAt = params.CancelledAt
	appt.CancelledBy = params.CancelledBy
	appt.CancelReason = params.CancelReason
	f.byID[id] = appt
	return appt, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) HasOverlap(context.Context, uuid.UUID, *uuid.UUID, time.Time, time.Time, *uuid.UUID) (bool, error) {
	return f.overlaps, nil
}

type fakeReminders struct {
	scheduled []uuid.UUID
	cancelled []uuid.UUID
}

func (f *fakeReminders) ScheduleReminder(_ context.Context, appointmentID uuid.UUID, _ time.Time) error {
	f.scheduled = append(f.scheduled, appointmentID)
	return nil
}

func (f *fakeReminders) CancelReminder(_ context.Context, appointmentID uuid.UUID) error {
	f.cancelled = append(f.cancelled, appointmentID)
	return nil
}

type recordingBus struct {
	events []domainevents.Event
}

func (b *recordingBus) Publish(_ context.Context, event domainevents.Event) {
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event domainevents.Event) error {
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(string, domainevents.Handler) {}

func newTestService(repo *fakeRepo, reminders *fakeReminders, bus *recordingBus) *Service {
	return New(repo, bus, reminders, logger.New("development"))
}

func TestCreateRejectsInvertedTimes(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeReminders{}, &recordingBus{})

	start := time.Now().UTC().Add(24 * time.Hour)
	_, err := svc.Create(context.Background(), transport.CreateAppointmentRequest{
		ClientID:  uuid.New(),
		ServiceID: uuid.New(),
		StartAt:   start,
		EndAt:     start.Add(-time.Hour),
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	repo := newFakeRepo()
	repo.overlaps = true
	svc := newTestService(repo, &fakeReminders{}, &recordingBus{})

	start := time.Now().UTC().Add(24 * time.Hour)
	_, err := svc.Create(context.Background(), transport.CreateAppointmentRequest{
		ClientID:  uuid.New(),
		ServiceID: uuid.New(),
		StartAt:   start,
		EndAt:     start.Add(time.Hour),
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateDefaultsPaymentAndSchedulesReminder(t *testing.T) {
	repo := newFakeRepo()
	reminders := &fakeReminders{}
	bus := &recordingBus{}
	svc := newTestService(repo, reminders, bus)

	start := time.Now().UTC().Add(24 * time.Hour)
	appt, err := svc.Create(context.Background(), transport.CreateAppointmentRequest{
		ClientID:  uuid.New(),
		ServiceID: uuid.New(),
		StartAt:   start,
		EndAt:     start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if appt.PaymentStatus != "unpaid" {
		t.Fatalf("expected default payment status unpaid, got %q", appt.PaymentStatus)
	}
	if len(reminders.scheduled) != 1 || reminders.scheduled[0] != appt.ID {
		t.Fatalf("expected one reminder scheduled for %s, got %v", appt.ID, reminders.scheduled)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.events))
	}
	booked, ok := bus.events[0].(domainevents.AppointmentBooked)
	if !ok {
		t.Fatalf("expected AppointmentBooked, got %T", bus.events[0])
	}
	if booked.AppointmentID != appt.ID {
		t.Fatalf("event appointment id = %s, want %s", booked.AppointmentID, appt.ID)
	}
}

func TestUpdateStatusRejectsTerminalTransition(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeReminders{}, &recordingBus{})

	id := uuid.New()
	repo.byID[id] = repository.Appointment{ID: id, ClientID: uuid.New(), Status: "completed"}

	_, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{Status: "cancelled"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateStatusCancelStampsActorAndRevokesReminder(t *testing.T) {
	repo := newFakeRepo()
	reminders := &fakeReminders{}
	svc := newTestService(repo, reminders, &recordingBus{})

	id := uuid.New()
	repo.byID[id] = repository.Appointment{ID: id, ClientID: uuid.New(), Status: "scheduled"}

	appt, err := svc.UpdateStatus(context.Background(), id, transport.UpdateStatusRequest{Status: "cancelled"})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}

	if appt.Status != "cancelled" {
		t.Fatalf("status = %q, want cancelled", appt.Status)
	}
	if repo.lastStatus.CancelledAt == nil {
		t.Fatalf("expected cancelledAt to be stamped")
	}
	if repo.lastStatus.CancelledBy == nil || *repo.lastStatus.CancelledBy != "staff" {
		t.Fatalf("expected default cancelling actor staff, got %v", repo.lastStatus.CancelledBy)
	}
	if len(reminders.cancelled) != 1 || reminders.cancelled[0] != id {
		t.Fatalf("expected reminder revoked for %s, got %v", id, reminders.cancelled)
	}
}

func TestUpdateRejectsRescheduleOfTerminalAppointment(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeReminders{}, &recordingBus{})

	id := uuid.New()
	repo.byID[id] = repository.Appointment{ID: id, ClientID: uuid.New(), Status: "cancelled"}

	start := time.Now().UTC().Add(48 * time.Hour)
	_, err := svc.Update(context.Background(), id, transport.UpdateAppointmentRequest{StartAt: &start})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateRejectsRescheduleSmuggledWithPaymentStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeReminders{}, &recordingBus{})

	id := uuid.New()
	repo.byID[id] = repository.Appointment{ID: id, ClientID: uuid.New(), Status: "completed"}

	// A payment correction must not smuggle a new time slot past the
	// terminal-status guard.
	paid := "paid"
	start := time.Now().UTC().Add(48 * time.Hour)
	_, err := svc.Update(context.Background(), id, transport.UpdateAppointmentRequest{
		PaymentStatus: &paid,
		StartAt:       &start,
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateAllowsPaymentCorrectionOnCompletedAppointment(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeReminders{}, &recordingBus{})

	id := uuid.New()
	repo.byID[id] = repository.Appointment{ID: id, ClientID: uuid.New(), Status: "completed", PaymentStatus: "unpaid"}

	paid := "paid"
	appt, err := svc.Update(context.Background(), id, transport.UpdateAppointmentRequest{PaymentStatus: &paid})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if appt.PaymentStatus != "paid" {
		t.Fatalf("payment status = %q, want paid", appt.PaymentStatus)
	}
}
