// Package service contains the business logic for the waitlist, including
// the candidate matcher for freed slots.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clinicdesk/internal/behavior/engine"
	domainevents "clinicdesk/internal/events"
	"clinicdesk/internal/waitlist/repository"
	"clinicdesk/internal/waitlist/transport"
)

// Service provides waitlist operations.
type Service struct {
	repo repository.Repository
	bus  domainevents.Bus
}

// New creates a new waitlist service.
func New(repo repository.Repository, bus domainevents.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// GetByID returns one waitlist entry.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Entry, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns waitlist entries, optionally for one service.
func (s *Service) List(ctx context.Context, query transport.ListEntriesQuery) ([]repository.Entry, error) {
	return s.repo.List(ctx, query.ServiceID)
}

// ListByClient returns one client's waitlist entries.
func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]repository.Entry, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ListAll returns every waitlist entry.
func (s *Service) ListAll(ctx context.Context) ([]repository.Entry, error) {
	return s.repo.List(ctx, nil)
}

// Create adds a client to a service waitlist and publishes
// WaitlistEntryAdded for the behavior engine's engagement signal.
func (s *Service) Create(ctx context.Context, req transport.CreateEntryRequest) (repository.Entry, error) {
	entry, err := s.repo.Create(ctx, repository.CreateEntryParams{
		ClientID:  req.ClientID,
		ServiceID: req.ServiceID,
		Priority:  req.Priority,
		Note:      req.Note,
	})
	if err != nil {
		return repository.Entry{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, domainevents.WaitlistEntryAdded{
			BaseEvent: domainevents.NewBaseEvent(),
			EntryID:   entry.ID,
			ClientID:  entry.ClientID,
			ServiceID: entry.ServiceID,
		})
	}

	return entry, nil
}

// Delete removes a waitlist entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Suggestions ranks candidates for a freed slot on the given service by
// running the candidate matcher over the current entries.
func (s *Service) Suggestions(ctx context.Context, query transport.SuggestionsQuery) ([]engine.WaitlistSuggestion, error) {
	entries, err := s.repo.List(ctx, &query.ServiceID)
	if err != nil {
		return nil, err
	}

	return engine.SuggestCandidates(toEngineEntries(entries), query.ServiceID, query.Limit, nil, engine.Options{
		Now: time.Now().UTC(),
	}), nil
}

func toEngineEntries(entries []repository.Entry) []engine.WaitlistEntry {
	out := make([]engine.WaitlistEntry, len(entries))
	for i, e := range entries {
		out[i] = engine.WaitlistEntry{
			ID:        e.ID,
			ClientID:  e.ClientID,
			ServiceID: e.ServiceID,
			Priority:  e.Priority,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		}
	}
	return out
}
