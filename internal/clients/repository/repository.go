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

const clientNotFoundMessage = "client not found"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new client directory repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a client by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Client, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, notes, created_at, updated_at
		FROM clients
		WHERE id = $1`

	var client Client
	var createdAt, updatedAt time.Time

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&client.ID, &client.FirstName, &client.LastName, &client.Email,
		&client.Phone, &client.Notes, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("get client by id: %w", err)
	}

	client.CreatedAt = createdAt.Format(time.RFC3339)
	client.UpdatedAt = updatedAt.Format(time.RFC3339)

	return client, nil
}

// List pages through the directory, optionally filtering by a name/email
// search term. Returns the page plus the total match count.
func (r *Repo) List(ctx context.Context, params ListClientsParams) ([]Client, int, error) {
	where := ""
	args := []any{}

	if params.Search != "" {
		args = append(args, "%"+strings.ToLower(params.Search)+"%")
		where = ` WHERE LOWER(first_name || ' ' || last_name || ' ' || email) LIKE $1`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT id, first_name, last_name, email, phone, notes, created_at, updated_at
		FROM clients%s
		ORDER BY last_name ASC, first_name ASC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var client Client
		var createdAt, updatedAt time.Time
		if err := rows.Scan(
			&client.ID, &client.FirstName, &client.LastName, &client.Email,
			&client.Phone, &client.Notes, &createdAt, &updatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		client.CreatedAt = createdAt.Format(time.RFC3339)
		client.UpdatedAt = updatedAt.Format(time.RFC3339)
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate clients: %w", err)
	}

	return clients, total, nil
}

// ListAll returns every client ordered by name. The behavior sweep walks
// the whole directory, so no paging here.
func (r *Repo) ListAll(ctx context.Context) ([]Client, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, notes, created_at, updated_at
		FROM clients
		ORDER BY last_name ASC, first_name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var client Client
		var createdAt, updatedAt time.Time
		if err := rows.Scan(
			&client.ID, &client.FirstName, &client.LastName, &client.Email,
			&client.Phone, &client.Notes, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		client.CreatedAt = createdAt.Format(time.RFC3339)
		client.UpdatedAt = updatedAt.Format(time.RFC3339)
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}

	return clients, nil
}

// Create inserts a new client and returns it.
func (r *Repo) Create(ctx context.Context, params CreateClientParams) (Client, error) {
	query := `
		INSERT INTO clients (id, first_name, last_name, email, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, first_name, last_name, email, phone, notes, created_at, updated_at`

	var client Client
	var createdAt, updatedAt time.Time

	err := r.pool.QueryRow(ctx, query,
		uuid.New(), params.FirstName, params.LastName, params.Email, params.Phone, params.Notes,
	).Scan(
		&client.ID, &client.FirstName, &client.LastName, &client.Email,
		&client.Phone, &client.Notes, &createdAt, &updatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return Client{}, apperr.Conflict("a client with this email already exists")
		}
		return Client{}, fmt.Errorf("create client: %w", err)
	}

	client.CreatedAt = createdAt.Format(time.RFC3339)
	client.UpdatedAt = updatedAt.Format(time.RFC3339)

	return client, nil
}

// Update applies the non-nil fields and returns the updated client.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateClientParams) (Client, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.FirstName != nil {
		appendSet("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		appendSet("last_name", *params.LastName)
	}
	if params.Email != nil {
		appendSet("email", *params.Email)
	}
	if params.Phone != nil {
		appendSet("phone", *params.Phone)
	}
	if params.Notes != nil {
		appendSet("notes", *params.Notes)
	}

	query := fmt.Sprintf(`
		UPDATE clients
		SET %s
		WHERE id = $1
		RETURNING id, first_name, last_name, email, phone, notes, created_at, updated_at`,
		strings.Join(sets, ", "))

	var client Client
	var createdAt, updatedAt time.Time

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&client.ID, &client.FirstName, &client.LastName, &client.Email,
		&client.Phone, &client.Notes, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("update client: %w", err)
	}

	client.CreatedAt = createdAt.Format(time.RFC3339)
	client.UpdatedAt = updatedAt.Format(time.RFC3339)

	return client, nil
}

// Delete removes a client by ID.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMessage)
	}
	return nil
}
