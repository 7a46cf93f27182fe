// Package repository provides PostgreSQL storage for appointments.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicdesk/platform/apperr"
)

const appointmentNotFoundMessage = "appointment not found"

const appointmentColumns = `id, client_id, employee_id, service_id, start_at, end_at,
	status, payment_status, cancelled_at, cancelled_by, cancel_reason, created_at, updated_at`

// Appointment is the storage model for one appointment row.
type Appointment struct {
	ID            uuid.UUID  `json:"id"`
	ClientID      uuid.UUID  `json:"clientId"`
	EmployeeID    *uuid.UUID `json:"employeeId,omitempty"`
	ServiceID     uuid.UUID  `json:"serviceId"`
	StartAt       time.Time  `json:"startAt"`
	EndAt         time.Time  `json:"endAt"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy   *string    `json:"cancelledBy,omitempty"`
	CancelReason  *string    `json:"cancelReason,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CreateAppointmentParams carries the fields for creating an appointment.
type CreateAppointmentParams struct {
	ClientID      uuid.UUID
	EmployeeID    *uuid.UUID
	ServiceID     uuid.UUID
	StartAt       time.Time
	EndAt         time.Time
	PaymentStatus string
}

// UpdateAppointmentParams carries the reschedulable fields. Nil fields
// are left unchanged.
type UpdateAppointmentParams struct {
	EmployeeID    *uuid.UUID
	ServiceID     *uuid.UUID
	StartAt       *time.Time
	EndAt         *time.Time
	PaymentStatus *string
}

// StatusChangeParams records a lifecycle transition.
type StatusChangeParams struct {
	Status       string
	CancelledAt  *time.Time
	CancelledBy  *string
	CancelReason *string
}

// ListAppointmentsParams filters the appointment listing.
type ListAppointmentsParams struct {
	ClientID *uuid.UUID
	Status   *string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// Repository defines the storage operations for appointments.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Appointment, error)
	List(ctx context.Context, params ListAppointmentsParams) ([]Appointment, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]Appointment, error)
	ListAll(ctx context.Context) ([]Appointment, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)
	Create(ctx context.Context, params CreateAppointmentParams) (Appointment, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateAppointmentParams) (Appointment, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, params StatusChangeParams) (Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	HasOverlap(ctx context.Context, clientID uuid.UUID, employeeID *uuid.UUID, startAt, endAt time.Time, excludeID *uuid.UUID) (bool, error)
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanAppointment(row pgx.Row) (Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.ClientID, &a.EmployeeID, &a.ServiceID, &a.StartAt, &a.EndAt,
		&a.Status, &a.PaymentStatus, &a.CancelledAt, &a.CancelledBy, &a.CancelReason,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// GetByID retrieves an appointment by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)

	a, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appointment{}, apperr.NotFound(appointmentNotFoundMessage)
		}
		return Appointment{}, fmt.Errorf("get appointment by id: %w", err)
	}
	return a, nil
}

func (r *Repo) queryAppointments(ctx context.Context, query string, args ...any) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	return appointments, nil
}

// List retrieves appointments matching the filters.
func (r *Repo) List(ctx context.Context, params ListAppointmentsParams) ([]Appointment, error) {
	var conditions []string
	var args []any

	addCondition := func(expr string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}

	if params.ClientID != nil {
		addCondition("client_id = $%d", *params.ClientID)
	}
	if params.Status != nil {
		addCondition("status = $%d", *params.Status)
	}
	if params.From != nil {
		addCondition("start_at >= $%d", *params.From)
	}
	if params.To != nil {
		addCondition("start_at < $%d", *params.To)
	}

	query := fmt.Sprintf(`SELECT %s FROM appointments`, appointmentColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, params.Limit, params.Offset)
	query += fmt.Sprintf(" ORDER BY start_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.queryAppointments(ctx, query, args...)
}

// ListByClient retrieves a client's full appointment history.
func (r *Repo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE client_id = $1 ORDER BY start_at ASC`, appointmentColumns)
	return r.queryAppointments(ctx, query, clientID)
}

// ListAll retrieves every appointment row.
func (r *Repo) ListAll(ctx context.Context) ([]Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments ORDER BY start_at ASC`, appointmentColumns)
	return r.queryAppointments(ctx, query)
}

// ListStartingBetween retrieves scheduled appointments starting inside the
// given span. Used by the reminder sweep.
func (r *Repo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments
		WHERE status = 'scheduled' AND start_at >= $1 AND start_at < $2
		ORDER BY start_at ASC`, appointmentColumns)
	return r.queryAppointments(ctx, query, from, to)
}

// Create inserts a new appointment and returns it.
func (r *Repo) Create(ctx context.Context, params CreateAppointmentParams) (Appointment, error) {
	query := fmt.Sprintf(`
		INSERT INTO appointments (id, client_id, employee_id, service_id, start_at, end_at, status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'scheduled', $7, NOW(), NOW())
		RETURNING %s`, appointmentColumns)

	a, err := scanAppointment(r.pool.QueryRow(ctx, query,
		uuid.New(), params.ClientID, params.EmployeeID, params.ServiceID,
		params.StartAt, params.EndAt, params.PaymentStatus,
	))
	if err != nil {
		return Appointment{}, fmt.Errorf("create appointment: %w", err)
	}
	return a, nil
}

// Update applies the non-nil reschedulable fields and returns the row.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateAppointmentParams) (Appointment, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.EmployeeID != nil {
		appendSet("employee_id", *params.EmployeeID)
	}
	if params.ServiceID != nil {
		appendSet("service_id", *params.ServiceID)
	}
	if params.StartAt != nil {
		appendSet("start_at", *params.StartAt)
	}
	if params.EndAt != nil {
		appendSet("end_at", *params.EndAt)
	}
	if params.PaymentStatus != nil {
		appendSet("payment_status", *params.PaymentStatus)
	}

	query := fmt.Sprintf(`UPDATE appointments SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), appointmentColumns)

	a, err := scanAppointment(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appointment{}, apperr.NotFound(appointmentNotFoundMessage)
		}
		return Appointment{}, fmt.Errorf("update appointment: %w", err)
	}
	return a, nil
}

// ChangeStatus records a lifecycle transition and returns the row.
func (r *Repo) ChangeStatus(ctx context.Context, id uuid.UUID, params StatusChangeParams) (Appointment, error) {
	query := fmt.Sprintf(`
		UPDATE appointments
		SET status = $2, cancelled_at = $3, cancelled_by = $4, cancel_reason = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, appointmentColumns)

	a, err := scanAppointment(r.pool.QueryRow(ctx, query,
		id, params.Status, params.CancelledAt, params.CancelledBy, params.CancelReason,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appointment{}, apperr.NotFound(appointmentNotFoundMessage)
		}
		return Appointment{}, fmt.Errorf("change appointment status: %w", err)
	}
	return a, nil
}

// Delete removes an appointment by ID.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(appointmentNotFoundMessage)
	}
	return nil
}

// HasOverlap reports whether a scheduled appointment for the same client,
// or the same employee when one is assigned, overlaps the given span.
func (r *Repo) HasOverlap(ctx context.Context, clientID uuid.UUID, employeeID *uuid.UUID, startAt, endAt time.Time, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE status = 'scheduled'
			  AND start_at < $2 AND end_at > $1
			  AND (client_id = $3 OR ($4::uuid IS NOT NULL AND employee_id = $4))
			  AND ($5::uuid IS NULL OR id <> $5)
		)`

	var overlaps bool
	if err := r.pool.QueryRow(ctx, query, startAt, endAt, clientID, employeeID, excludeID).Scan(&overlaps); err != nil {
		return false, fmt.Errorf("check appointment overlap: %w", err)
	}
	return overlaps, nil
}
