// Package transport defines the HTTP request shapes for the appointments
// module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateAppointmentRequest is the payload for booking an appointment.
type CreateAppointmentRequest struct {
	ClientID      uuid.UUID  `json:"clientId" validate:"required"`
	EmployeeID    *uuid.UUID `json:"employeeId"`
	ServiceID     uuid.UUID  `json:"serviceId" validate:"required"`
	StartAt       time.Time  `json:"startAt" validate:"required"`
	EndAt         time.Time  `json:"endAt" validate:"required"`
	PaymentStatus *string    `json:"paymentStatus" validate:"omitempty,oneof=unpaid paid refunded"`
}

// UpdateAppointmentRequest reschedules or reassigns an appointment. All
// fields are optional; omitted fields are left unchanged.
type UpdateAppointmentRequest struct {
	EmployeeID    *uuid.UUID `json:"employeeId"`
	ServiceID     *uuid.UUID `json:"serviceId"`
	StartAt       *time.Time `json:"startAt"`
	EndAt         *time.Time `json:"endAt"`
	PaymentStatus *string    `json:"paymentStatus" validate:"omitempty,oneof=unpaid paid refunded"`
}

// UpdateStatusRequest records a lifecycle transition.
type UpdateStatusRequest struct {
	Status       string  `json:"status" validate:"required,oneof=completed cancelled no_show"`
	CancelledBy  *string `json:"cancelledBy" validate:"omitempty,oneof=client staff system"`
	CancelReason *string `json:"cancelReason" validate:"omitempty,max=2000"`
}

// ListAppointmentsQuery filters the appointment listing.
type ListAppointmentsQuery struct {
	ClientID *uuid.UUID `form:"clientId"`
	Status   *string    `form:"status" validate:"omitempty,oneof=scheduled completed cancelled no_show"`
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit    int        `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset   int        `form:"offset" validate:"omitempty,min=0"`
}
