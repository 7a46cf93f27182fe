// Package clients provides the client directory module.
package clients

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicdesk/internal/clients/handler"
	"clinicdesk/internal/clients/repository"
	"clinicdesk/internal/clients/service"
	apphttp "clinicdesk/internal/http"
	"clinicdesk/platform/validator"
)

// Module represents the client directory module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new clients module with all dependencies wired.
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
	return "clients"
}

// RegisterRoutes registers the module's routes under /api/v1/clients.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	clients := ctx.Protected.Group("/clients")
	m.handler.RegisterRoutes(clients)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
