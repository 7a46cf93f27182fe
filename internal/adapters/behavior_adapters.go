// Package adapters provides anti-corruption-layer adapters for cross-domain
// communication. Each adapter implements a consumer-side port interface by
// wrapping another module's service, so modules never import each other
// directly.
package adapters

import (
	"context"

	"github.com/google/uuid"

	apptrepo "clinicdesk/internal/appointments/repository"
	apptservice "clinicdesk/internal/appointments/service"
	"clinicdesk/internal/behavior/engine"
	"clinicdesk/internal/behavior/ports"
	clientrepo "clinicdesk/internal/clients/repository"
	clientservice "clinicdesk/internal/clients/service"
	waitlistrepo "clinicdesk/internal/waitlist/repository"
	waitlistservice "clinicdesk/internal/waitlist/service"
)

// BehaviorAppointmentReader adapts the appointments service for the behavior
// module. It implements behavior/ports.AppointmentReader.
type BehaviorAppointmentReader struct {
	svc *apptservice.Service
}

// NewBehaviorAppointmentReader creates a new adapter over the appointments service.
func NewBehaviorAppointmentReader(svc *apptservice.Service) *BehaviorAppointmentReader {
	return &BehaviorAppointmentReader{svc: svc}
}

var _ ports.AppointmentReader = (*BehaviorAppointmentReader)(nil)

func (a *BehaviorAppointmentReader) ListByClient(ctx context.Context, clientID uuid.UUID) ([]engine.AppointmentRecord, error) {
	appts, err := a.svc.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return toAppointmentRecords(appts), nil
}

func (a *BehaviorAppointmentReader) ListAll(ctx context.Context) ([]engine.AppointmentRecord, error) {
	appts, err := a.svc.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toAppointmentRecords(appts), nil
}

func toAppointmentRecords(appts []apptrepo.Appointment) []engine.AppointmentRecord {
	records := make([]engine.AppointmentRecord, 0, len(appts))
	for _, appt := range appts {
		createdAt := appt.CreatedAt

		var cancelledBy engine.CancelActor
		if appt.CancelledBy != nil {
			cancelledBy = engine.CancelActor(*appt.CancelledBy)
		}

		records = append(records, engine.AppointmentRecord{
			ID:            appt.ID,
			ClientID:      appt.ClientID,
			EmployeeID:    appt.EmployeeID,
			ServiceID:     appt.ServiceID,
			StartAt:       appt.StartAt,
			EndAt:         appt.EndAt,
			Status:        engine.AppointmentStatus(appt.Status),
			PaymentStatus: engine.PaymentStatus(appt.PaymentStatus),
			CreatedAt:     &createdAt,
			CancelledAt:   appt.CancelledAt,
			CancelledBy:   cancelledBy,
			CancelReason:  appt.CancelReason,
		})
	}
	return records
}

// BehaviorWaitlistReader adapts the waitlist service for the behavior
// module. It implements behavior/ports.WaitlistReader.
type BehaviorWaitlistReader struct {
	svc *waitlistservice.Service
}

// NewBehaviorWaitlistReader creates a new adapter over the waitlist service.
func NewBehaviorWaitlistReader(svc *waitlistservice.Service) *BehaviorWaitlistReader {
	return &BehaviorWaitlistReader{svc: svc}
}

var _ ports.WaitlistReader = (*BehaviorWaitlistReader)(nil)

func (a *BehaviorWaitlistReader) ListByClient(ctx context.Context, clientID uuid.UUID) ([]engine.WaitlistEntry, error) {
	entries, err := a.svc.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return toWaitlistEntries(entries), nil
}

func (a *BehaviorWaitlistReader) ListAll(ctx context.Context) ([]engine.WaitlistEntry, error) {
	entries, err := a.svc.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toWaitlistEntries(entries), nil
}

func toWaitlistEntries(entries []waitlistrepo.Entry) []engine.WaitlistEntry {
	result := make([]engine.WaitlistEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, engine.WaitlistEntry{
			ID:        entry.ID,
			ClientID:  entry.ClientID,
			ServiceID: entry.ServiceID,
			Priority:  entry.Priority,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		})
	}
	return result
}

// BehaviorClientDirectory adapts the clients service for the behavior
// module. It implements behavior/ports.ClientDirectory.
type BehaviorClientDirectory struct {
	svc *clientservice.Service
}

// NewBehaviorClientDirectory creates a new adapter over the clients service.
func NewBehaviorClientDirectory(svc *clientservice.Service) *BehaviorClientDirectory {
	return &BehaviorClientDirectory{svc: svc}
}

var _ ports.ClientDirectory = (*BehaviorClientDirectory)(nil)

func (a *BehaviorClientDirectory) Get(ctx context.Context, clientID uuid.UUID) (ports.ClientInfo, error) {
	client, err := a.svc.GetByID(ctx, clientID)
	if err != nil {
		return ports.ClientInfo{}, err
	}
	return toClientInfo(client), nil
}

func (a *BehaviorClientDirectory) ListAll(ctx context.Context) ([]ports.ClientInfo, error) {
	clients, err := a.svc.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]ports.ClientInfo, 0, len(clients))
	for _, client := range clients {
		infos = append(infos, toClientInfo(client))
	}
	return infos, nil
}

func toClientInfo(client clientrepo.Client) ports.ClientInfo {
	var phone string
	if client.Phone != nil {
		phone = *client.Phone
	}
	return ports.ClientInfo{
		ID:          client.ID,
		DisplayName: client.FirstName + " " + client.LastName,
		Email:       client.Email,
		Phone:       phone,
	}
}
