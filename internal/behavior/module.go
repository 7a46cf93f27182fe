// Package behavior provides the client behavior profiling module: derived
// events, windowed metrics, scores, tags, notification strategy, and
// prioritized recommendations.
package behavior

import (
	"clinicdesk/internal/behavior/handler"
	"clinicdesk/internal/behavior/ports"
	"clinicdesk/internal/behavior/service"
	domainevents "clinicdesk/internal/events"
	apphttp "clinicdesk/internal/http"
	"clinicdesk/platform/config"
	"clinicdesk/platform/logger"
	"clinicdesk/platform/validator"
)

// Module represents the behavior domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new behavior module with all dependencies wired.
// The readers are adapters over the other domain modules, supplied by the
// composition root.
func NewModule(appointments ports.AppointmentReader, waitlist ports.WaitlistReader, clients ports.ClientDirectory, bus domainevents.Bus, log *logger.Logger, cfg config.BehaviorConfig, val *validator.Validator) *Module {
	svc := service.New(appointments, waitlist, clients, bus, log, cfg)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "behavior"
}

// RegisterRoutes registers the module's routes under /api/v1/behavior.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	behavior := ctx.Protected.Group("/behavior")
	m.handler.RegisterRoutes(behavior)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
