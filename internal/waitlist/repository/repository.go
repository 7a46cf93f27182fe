// Package repository provides PostgreSQL storage for the waitlist.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicdesk/platform/apperr"
)

const entryNotFoundMessage = "waitlist entry not found"

// Entry is the storage model for one waitlist row.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"clientId"`
	ServiceID uuid.UUID `json:"serviceId"`
	Priority  *int      `json:"priority,omitempty"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateEntryParams carries the fields for joining a waitlist.
type CreateEntryParams struct {
	ClientID  uuid.UUID
	ServiceID uuid.UUID
	Priority  *int
	Note      *string
}

// Repository defines the storage operations for the waitlist.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Entry, error)
	List(ctx context.Context, serviceID *uuid.UUID) ([]Entry, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]Entry, error)
	Create(ctx context.Context, params CreateEntryParams) (Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new waitlist repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const entryColumns = `id, client_id, service_id, priority, note, created_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.ClientID, &e.ServiceID, &e.Priority, &e.Note, &e.CreatedAt)
	return e, err
}

// GetByID retrieves a waitlist entry by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM waitlist_entries WHERE id = $1`, entryColumns)

	e, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, apperr.NotFound(entryNotFoundMessage)
		}
		return Entry{}, fmt.Errorf("get waitlist entry: %w", err)
	}
	return e, nil
}

func (r *Repo) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query waitlist entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waitlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate waitlist entries: %w", err)
	}
	return entries, nil
}

// List retrieves entries in insertion order, optionally for one service.
// Insertion order matters: the candidate matcher's tie-breaking is defined
// over it.
func (r *Repo) List(ctx context.Context, serviceID *uuid.UUID) ([]Entry, error) {
	if serviceID != nil {
		query := fmt.Sprintf(`SELECT %s FROM waitlist_entries WHERE service_id = $1 ORDER BY created_at ASC, id ASC`, entryColumns)
		return r.queryEntries(ctx, query, *serviceID)
	}
	query := fmt.Sprintf(`SELECT %s FROM waitlist_entries ORDER BY created_at ASC, id ASC`, entryColumns)
	return r.queryEntries(ctx, query)
}

// ListByClient retrieves one client's entries.
func (r *Repo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM waitlist_entries WHERE client_id = $1 ORDER BY created_at ASC, id ASC`, entryColumns)
	return r.queryEntries(ctx, query, clientID)
}

// Create inserts a new waitlist entry and returns it.
func (r *Repo) Create(ctx context.Context, params CreateEntryParams) (Entry, error) {
	query := fmt.Sprintf(`
		INSERT INTO waitlist_entries (id, client_id, service_id, priority, note, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING %s`, entryColumns)

	e, err := scanEntry(r.pool.QueryRow(ctx, query,
		uuid.New(), params.ClientID, params.ServiceID, params.Priority, params.Note,
	))
	if err != nil {
		return Entry{}, fmt.Errorf("create waitlist entry: %w", err)
	}
	return e, nil
}

// Delete removes a waitlist entry by ID.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM waitlist_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete waitlist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entryNotFoundMessage)
	}
	return nil
}
