// Package ports defines the read-only collaborator interfaces the behavior
// module depends on. Concrete implementations are adapters over the other
// domain modules, wired in the composition root; the engine itself never
// touches storage.
package ports

import (
	"context"

	"github.com/google/uuid"

	"clinicdesk/internal/behavior/engine"
)

// ClientInfo is the directory projection the behavior module needs.
type ClientInfo struct {
	ID          uuid.UUID
	DisplayName string
	Email       string
	Phone       string
}

// AppointmentReader loads appointment snapshots for evaluation.
type AppointmentReader interface {
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]engine.AppointmentRecord, error)
	ListAll(ctx context.Context) ([]engine.AppointmentRecord, error)
}

// WaitlistReader loads waitlist snapshots for evaluation.
type WaitlistReader interface {
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]engine.WaitlistEntry, error)
	ListAll(ctx context.Context) ([]engine.WaitlistEntry, error)
}

// ClientDirectory resolves client identities and display names.
type ClientDirectory interface {
	Get(ctx context.Context, clientID uuid.UUID) (ClientInfo, error)
	ListAll(ctx context.Context) ([]ClientInfo, error)
}
