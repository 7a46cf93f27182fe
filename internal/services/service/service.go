// Package service contains the business logic for the clinic service
// catalog.
package service

import (
	"context"

	"github.com/google/uuid"

	"clinicdesk/internal/services/repository"
	"clinicdesk/internal/services/transport"
	"clinicdesk/platform/apperr"
)

// Service provides catalog operations.
type Service struct {
	repo repository.Repository
}

// New creates a new catalog service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// GetByID returns one service.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Service, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all services, optionally only active ones.
func (s *Service) List(ctx context.Context, query transport.ListServicesQuery) ([]repository.Service, error) {
	return s.repo.List(ctx, query.ActiveOnly)
}

// Create adds a new service to the catalog. New services are active
// unless the request says otherwise.
func (s *Service) Create(ctx context.Context, req transport.CreateServiceRequest) (repository.Service, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return s.repo.Create(ctx, repository.CreateServiceParams{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Active:          active,
	})
}

// Update applies the provided fields to a service.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateServiceRequest) (repository.Service, error) {
	if req.Name == nil && req.Description == nil && req.DurationMinutes == nil &&
		req.PriceCents == nil && req.Active == nil {
		return repository.Service{}, apperr.Validation("no fields to update")
	}

	return s.repo.Update(ctx, id, repository.UpdateServiceParams{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Active:          req.Active,
	})
}

// Delete removes a service from the catalog.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
