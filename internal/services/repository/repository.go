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

const serviceNotFoundMessage = "service not found"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new service catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a service by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Service, error) {
	query := `
		SELECT id, name, description, duration_minutes, price_cents, active, created_at, updated_at
		FROM services
		WHERE id = $1`

	var svc Service
	var createdAt, updatedAt time.Time

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&svc.ID, &svc.Name, &svc.Description, &svc.DurationMinutes, &svc.PriceCents,
		&svc.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return Service{}, fmt.Errorf("get service by id: %w", err)
	}

	svc.CreatedAt = createdAt.Format(time.RFC3339)
	svc.UpdatedAt = updatedAt.Format(time.RFC3339)

	return svc, nil
}

// List retrieves all services, optionally only active ones.
func (r *Repo) List(ctx context.Context, activeOnly bool) ([]Service, error) {
	query := `
		SELECT id, name, description, duration_minutes, price_cents, active, created_at, updated_at
		FROM services`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var svc Service
		var createdAt, updatedAt time.Time
		if err := rows.Scan(
			&svc.ID, &svc.Name, &svc.Description, &svc.DurationMinutes, &svc.PriceCents,
			&svc.Active, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		svc.CreatedAt = createdAt.Format(time.RFC3339)
		svc.UpdatedAt = updatedAt.Format(time.RFC3339)
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}

	return services, nil
}

// Create inserts a new service and returns it.
func (r *Repo) Create(ctx context.Context, params CreateServiceParams) (Service, error) {
	query := `
		INSERT INTO services (id, name, description, duration_minutes, price_cents, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, name, description, duration_minutes, price_cents, active, created_at, updated_at`

	var svc Service
	var createdAt, updatedAt time.Time

	err := r.pool.QueryRow(ctx, query,
		uuid.New(), params.Name, params.Description, params.DurationMinutes, params.PriceCents, params.Active,
	).Scan(
		&svc.ID, &svc.Name, &svc.Description, &svc.DurationMinutes, &svc.PriceCents,
		&svc.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return Service{}, apperr.Conflict("a service with this name already exists")
		}
		return Service{}, fmt.Errorf("create service: %w", err)
	}

	svc.CreatedAt = createdAt.Format(time.RFC3339)
	svc.UpdatedAt = updatedAt.Format(time.RFC3339)

	return svc, nil
}

// Update applies the non-nil fields and returns the updated service.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateServiceParams) (Service, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		appendSet("name", *params.Name)
	}
	if params.Description != nil {
		appendSet("description", *params.Description)
	}
	if params.DurationMinutes != nil {
		appendSet("duration_minutes", *params.DurationMinutes)
	}
	if params.PriceCents != nil {
		appendSet("price_cents", *params.PriceCents)
	}
	if params.Active != nil {
		appendSet("active", *params.Active)
	}

	query := fmt.Sprintf(`
		UPDATE services
		SET %s
		WHERE id = $1
		RETURNING id, name, description, duration_minutes, price_cents, active, created_at, updated_at`,
		strings.Join(sets, ", "))

	var svc Service
	var createdAt, updatedAt time.Time

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&svc.ID, &svc.Name, &svc.Description, &svc.DurationMinutes, &svc.PriceCents,
		&svc.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return Service{}, fmt.Errorf("update service: %w", err)
	}

	svc.CreatedAt = createdAt.Format(time.RFC3339)
	svc.UpdatedAt = updatedAt.Format(time.RFC3339)

	return svc, nil
}

// Delete removes a service by ID.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}
	return nil
}
