package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	domainevents "clinicdesk/internal/events"
	"clinicdesk/internal/waitlist/repository"
	"clinicdesk/internal/waitlist/transport"
)

type fakeRepo struct {
	entries []repository.Entry
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Entry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return repository.Entry{}, nil
}

func (f *fakeRepo) List(_ context.Context, serviceID *uuid.UUID) ([]repository.Entry, error) {
	if serviceID == nil {
		return f.entries, nil
	}
	var out []repository.Entry
	for _, e := range f.entries {
		if e.ServiceID == *serviceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]repository.Entry, error) {
	var out []repository.Entry
	for _, e := range f.entries {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateEntryParams) (repository.Entry, error) {
	entry := repository.Entry{
		ID:        uuid.New(),
		ClientID:  params.ClientID,
		ServiceID: params.ServiceID,
		Priority:  params.Priority,
		Note:      params.Note,
		CreatedAt: time.Now().UTC(),
	}
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
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

func intp(v int) *int { return &v }

func TestCreatePublishesWaitlistEntryAdded(t *testing.T) {
	bus := &recordingBus{}
	svc := New(&fakeRepo{}, bus)

	entry, err := svc.Create(context.Background(), transport.CreateEntryRequest{
		ClientID:  uuid.New(),
		ServiceID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(bus.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.events))
	}
	added, ok := bus.events[0].(domainevents.WaitlistEntryAdded)
	if !ok {
		t.Fatalf("expected WaitlistEntryAdded, got %T", bus.events[0])
	}
	if added.EntryID != entry.ID {
		t.Fatalf("event entry id = %s, want %s", added.EntryID, entry.ID)
	}
}

func TestSuggestionsSortsAndDeduplicatesByClient(t *testing.T) {
	serviceID := uuid.New()
	clientA := uuid.New()
	clientB := uuid.New()
	now := time.Now().UTC()

	repo := &fakeRepo{entries: []repository.Entry{
		{ID: uuid.New(), ClientID: clientA, ServiceID: serviceID, Priority: intp(2), CreatedAt: now.Add(-72 * time.Hour)},
		{ID: uuid.New(), ClientID: clientB, ServiceID: serviceID, Priority: intp(1), CreatedAt: now.Add(-48 * time.Hour)},
		{ID: uuid.New(), ClientID: clientA, ServiceID: serviceID, Priority: intp(0), CreatedAt: now.Add(-24 * time.Hour)},
		{ID: uuid.New(), ClientID: clientA, ServiceID: uuid.New(), Priority: intp(0), CreatedAt: now},
	}}
	svc := New(repo, &recordingBus{})

	suggestions, err := svc.Suggestions(context.Background(), transport.SuggestionsQuery{ServiceID: serviceID})
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}

	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions after dedup, got %d", len(suggestions))
	}
	if suggestions[0].Entry.ClientID != clientA {
		t.Fatalf("first suggestion client = %s, want %s", suggestions[0].Entry.ClientID, clientA)
	}
	if suggestions[0].Entry.Priority == nil || *suggestions[0].Entry.Priority != 0 {
		t.Fatalf("expected client A's priority-0 entry to win, got %v", suggestions[0].Entry.Priority)
	}
	if suggestions[1].Entry.ClientID != clientB {
		t.Fatalf("second suggestion client = %s, want %s", suggestions[1].Entry.ClientID, clientB)
	}
}

func TestSuggestionsHonorsLimit(t *testing.T) {
	serviceID := uuid.New()
	now := time.Now().UTC()

	repo := &fakeRepo{}
	for i := 0; i < 5; i++ {
		repo.entries = append(repo.entries, repository.Entry{
			ID:        uuid.New(),
			ClientID:  uuid.New(),
			ServiceID: serviceID,
			Priority:  intp(i),
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	svc := New(repo, &recordingBus{})

	suggestions, err := svc.Suggestions(context.Background(), transport.SuggestionsQuery{ServiceID: serviceID, Limit: 2})
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
	}
}
