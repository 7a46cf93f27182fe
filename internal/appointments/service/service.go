// Package service contains the business logic for appointment booking and
// lifecycle transitions.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clinicdesk/internal/appointments/repository"
	"clinicdesk/internal/appointments/transport"
	domainevents "clinicdesk/internal/events"
	"clinicdesk/platform/apperr"
	"clinicdesk/platform/logger"
)

const defaultPageSize = 50

// ReminderScheduler enqueues and revokes appointment reminder tasks. The
// concrete implementation lives in the scheduler module and is wired in
// the composition root.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appointmentID uuid.UUID, startAt time.Time) error
	CancelReminder(ctx context.Context, appointmentID uuid.UUID) error
}

// Statuses an appointment can move to from "scheduled". Terminal statuses
// never transition again.
var allowedTransitions = map[string]map[string]bool{
	"scheduled": {"completed": true, "cancelled": true, "no_show": true},
}

// Service provides appointment operations.
type Service struct {
	repo      repository.Repository
	bus       domainevents.Bus
	reminders ReminderScheduler
	log       *logger.Logger
}

// New creates a new appointments service.
func New(repo repository.Repository, bus domainevents.Bus, reminders ReminderScheduler, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, reminders: reminders, log: log}
}

// GetByID returns one appointment.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns appointments matching the filters.
func (s *Service) List(ctx context.Context, query transport.ListAppointmentsQuery) ([]repository.Appointment, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	return s.repo.List(ctx, repository.ListAppointmentsParams{
		ClientID: query.ClientID,
		Status:   query.Status,
		From:     query.From,
		To:       query.To,
		Limit:    limit,
		Offset:   query.Offset,
	})
}

// Create books an appointment after checking for time conflicts, publishes
// AppointmentBooked, and schedules a reminder task.
func (s *Service) Create(ctx context.Context, req transport.CreateAppointmentRequest) (repository.Appointment, error) {
	if !req.EndAt.After(req.StartAt) {
		return repository.Appointment{}, apperr.Validation("endAt must be after startAt")
	}

	overlaps, err := s.repo.HasOverlap(ctx, req.ClientID, req.EmployeeID, req.StartAt, req.EndAt, nil)
	if err != nil {
		return repository.Appointment{}, err
	}
	if overlaps {
		return repository.Appointment{}, apperr.Conflict("the requested time overlaps an existing appointment")
	}

	paymentStatus := "unpaid"
	if req.PaymentStatus != nil {
		paymentStatus = *req.PaymentStatus
	}

	appt, err := s.repo.Create(ctx, repository.CreateAppointmentParams{
		ClientID:      req.ClientID,
		EmployeeID:    req.EmployeeID,
		ServiceID:     req.ServiceID,
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		PaymentStatus: paymentStatus,
	})
	if err != nil {
		return repository.Appointment{}, err
	}

	s.bus.Publish(ctx, domainevents.AppointmentBooked{
		BaseEvent:     domainevents.NewBaseEvent(),
		AppointmentID: appt.ID,
		ClientID:      appt.ClientID,
		ServiceID:     appt.ServiceID,
		StartAt:       appt.StartAt,
	})

	if s.reminders != nil {
		if err := s.reminders.ScheduleReminder(ctx, appt.ID, appt.StartAt); err != nil {
			// Booking succeeded; a missed reminder is recoverable.
			s.log.Error("schedule_reminder_failed", "appointment_id", appt.ID.String(), "error", err.Error())
		}
	}

	s.log.AppointmentEvent("booked", appt.ID.String(), appt.ClientID.String(), appt.Status)
	return appt, nil
}

// Update reschedules or reassigns an appointment. Only scheduled
// appointments can change time, staff, or service; settled appointments
// accept payment-status corrections and nothing else. A new time slot is
// conflict-checked.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateAppointmentRequest) (repository.Appointment, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Appointment{}, err
	}
	if current.Status != "scheduled" {
		if req.StartAt != nil || req.EndAt != nil || req.EmployeeID != nil || req.ServiceID != nil {
			return repository.Appointment{}, apperr.Conflict("only scheduled appointments can be rescheduled")
		}
		if req.PaymentStatus == nil {
			return repository.Appointment{}, apperr.Conflict("a " + current.Status + " appointment only accepts payment status updates")
		}
	}

	if req.StartAt != nil || req.EndAt != nil {
		startAt := current.StartAt
		endAt := current.EndAt
		if req.StartAt != nil {
			startAt = *req.StartAt
		}
		if req.EndAt != nil {
			endAt = *req.EndAt
		}
		if !endAt.After(startAt) {
			return repository.Appointment{}, apperr.Validation("endAt must be after startAt")
		}

		employeeID := current.EmployeeID
		if req.EmployeeID != nil {
			employeeID = req.EmployeeID
		}
		overlaps, err := s.repo.HasOverlap(ctx, current.ClientID, employeeID, startAt, endAt, &id)
		if err != nil {
			return repository.Appointment{}, err
		}
		if overlaps {
			return repository.Appointment{}, apperr.Conflict("the requested time overlaps an existing appointment")
		}
	}

	appt, err := s.repo.Update(ctx, id, repository.UpdateAppointmentParams{
		EmployeeID:    req.EmployeeID,
		ServiceID:     req.ServiceID,
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		return repository.Appointment{}, err
	}

	if s.reminders != nil && req.StartAt != nil {
		if err := s.reminders.ScheduleReminder(ctx, appt.ID, appt.StartAt); err != nil {
			s.log.Error("schedule_reminder_failed", "appointment_id", appt.ID.String(), "error", err.Error())
		}
	}

	return appt, nil
}

// UpdateStatus moves an appointment through its lifecycle. Cancelling
// stamps cancelledAt and the cancelling actor; every transition publishes
// AppointmentStatusChanged for the behavior and notification consumers.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateStatusRequest) (repository.Appointment, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Appointment{}, err
	}
	if !allowedTransitions[current.Status][req.Status] {
		return repository.Appointment{}, apperr.Conflict("invalid status transition from " + current.Status)
	}

	params := repository.StatusChangeParams{Status: req.Status}
	if req.Status == "cancelled" {
		now := time.Now().UTC()
		params.CancelledAt = &now
		params.CancelReason = req.CancelReason
		cancelledBy := "staff"
		if req.CancelledBy != nil {
			cancelledBy = *req.CancelledBy
		}
		params.CancelledBy = &cancelledBy
	}

	appt, err := s.repo.ChangeStatus(ctx, id, params)
	if err != nil {
		return repository.Appointment{}, err
	}

	s.bus.Publish(ctx, domainevents.AppointmentStatusChanged{
		BaseEvent:     domainevents.NewBaseEvent(),
		AppointmentID: appt.ID,
		ClientID:      appt.ClientID,
		ServiceID:     appt.ServiceID,
		OldStatus:     current.Status,
		NewStatus:     appt.Status,
		StartAt:       appt.StartAt,
		CancelledAt:   appt.CancelledAt,
	})

	if s.reminders != nil && req.Status == "cancelled" {
		if err := s.reminders.CancelReminder(ctx, appt.ID); err != nil {
			s.log.Error("cancel_reminder_failed", "appointment_id", appt.ID.String(), "error", err.Error())
		}
	}

	s.log.AppointmentEvent("status_changed", appt.ID.String(), appt.ClientID.String(), appt.Status)
	return appt, nil
}

// Delete removes an appointment outright. Intended for mistaken bookings;
// history that should influence behavior profiles is cancelled instead.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.reminders != nil {
		if err := s.reminders.CancelReminder(ctx, id); err != nil {
			s.log.Error("cancel_reminder_failed", "appointment_id", id.String(), "error", err.Error())
		}
	}
	return nil
}

// ListByClient returns a client's full appointment history, oldest first.
func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]repository.Appointment, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ListAll returns every appointment row.
func (s *Service) ListAll(ctx context.Context) ([]repository.Appointment, error) {
	return s.repo.ListAll(ctx)
}

// ListStartingBetween returns scheduled appointments in the span.
func (s *Service) ListStartingBetween(ctx context.Context, from, to time.Time) ([]repository.Appointment, error) {
	return s.repo.ListStartingBetween(ctx, from, to)
}
