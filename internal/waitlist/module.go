// Package waitlist provides the service waitlist module.
package waitlist

import (
	"github.com/jackc/pgx/v5/pgxpool"

	domainevents "clinicdesk/internal/events"
	apphttp "clinicdesk/internal/http"
	"clinicdesk/internal/waitlist/handler"
	"clinicdesk/internal/waitlist/repository"
	"clinicdesk/internal/waitlist/service"
	"clinicdesk/platform/validator"
)

// Module represents the waitlist domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new waitlist module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, bus domainevents.Bus) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "waitlist"
}

// RegisterRoutes registers the module's routes under /api/v1/waitlist.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	waitlist := ctx.Protected.Group("/waitlist")
	m.handler.RegisterRoutes(waitlist)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
