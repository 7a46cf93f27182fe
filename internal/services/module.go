// Package services provides the clinic service catalog module.
package services

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "clinicdesk/internal/http"
	"clinicdesk/internal/services/handler"
	"clinicdesk/internal/services/repository"
	"clinicdesk/internal/services/service"
	"clinicdesk/platform/validator"
)

// Module represents the service catalog module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new services module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "services"
}

// RegisterRoutes registers the module's routes under /api/v1/services.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	services := ctx.Protected.Group("/services")
	m.handler.RegisterRoutes(services)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
