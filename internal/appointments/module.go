// Package appointments provides the appointments domain module.
package appointments

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicdesk/internal/appointments/handler"
	"clinicdesk/internal/appointments/repository"
	"clinicdesk/internal/appointments/service"
	domainevents "clinicdesk/internal/events"
	apphttp "clinicdesk/internal/http"
	"clinicdesk/platform/logger"
	"clinicdesk/platform/validator"
)

// Module represents the appointments domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new appointments module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, bus domainevents.Bus, reminders service.ReminderScheduler, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, reminders, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "appointments"
}

// RegisterRoutes registers the module's routes under /api/v1/appointments.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	appointments := ctx.Protected.Group("/appointments")
	m.handler.RegisterRoutes(appointments)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
