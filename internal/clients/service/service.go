// Package service contains the business logic for the client directory.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"clinicdesk/internal/clients/repository"
	"clinicdesk/internal/clients/transport"
	"clinicdesk/platform/apperr"
	"clinicdesk/platform/phone"
)

const defaultPageSize = 50

// Service provides client directory operations.
type Service struct {
	repo repository.Repository
}

// New creates a new client directory service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// GetByID returns one client.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Client, error) {
	return s.repo.GetByID(ctx, id)
}

// ListResult is one directory page plus the total match count.
type ListResult struct {
	Clients []repository.Client `json:"clients"`
	Total   int                 `json:"total"`
}

// List pages through the directory.
func (s *Service) List(ctx context.Context, query transport.ListClientsQuery) (ListResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	clients, total, err := s.repo.List(ctx, repository.ListClientsParams{
		Search: query.Search,
		Limit:  limit,
		Offset: query.Offset,
	})
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{Clients: clients, Total: total}, nil
}

// ListAll returns the full directory, unpaged.
func (s *Service) ListAll(ctx context.Context) ([]repository.Client, error) {
	return s.repo.ListAll(ctx)
}

// Create adds a client, normalizing the phone number to E.164.
func (s *Service) Create(ctx context.Context, req transport.CreateClientRequest) (repository.Client, error) {
	return s.repo.Create(ctx, repository.CreateClientParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     normalizePhone(req.Phone),
		Notes:     req.Notes,
	})
}

// Update applies the provided fields to a client.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateClientRequest) (repository.Client, error) {
	if req.FirstName == nil && req.LastName == nil && req.Email == nil &&
		req.Phone == nil && req.Notes == nil {
		return repository.Client{}, apperr.Validation("no fields to update")
	}

	return s.repo.Update(ctx, id, repository.UpdateClientParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     normalizePhone(req.Phone),
		Notes:     req.Notes,
	})
}

// Delete removes a client.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// DisplayName returns "First Last" for one client.
func (s *Service) DisplayName(ctx context.Context, id uuid.UUID) (string, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s", client.FirstName, client.LastName), nil
}

func normalizePhone(raw *string) *string {
	if raw == nil || *raw == "" {
		return raw
	}
	normalized := phone.NormalizeE164(*raw)
	return &normalized
}
