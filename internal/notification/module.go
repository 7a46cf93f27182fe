// Package notification turns domain events into staff-facing in-app
// notifications. Delivery channel decisions come from the behavior
// engine's notification strategy; this module records and serves, it does
// not choose channels.
package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicdesk/internal/behavior/ports"
	"clinicdesk/internal/email"
	domainevents "clinicdesk/internal/events"
	apphttp "clinicdesk/internal/http"
	"clinicdesk/internal/notification/inapp"
	"clinicdesk/platform/httpkit"
	"clinicdesk/platform/logger"
)

// Module represents the notification module.
type Module struct {
	InApp      *inapp.Service
	subscriber *Subscriber
}

// NewModule creates a new notification module and subscribes it to the
// event bus.
func NewModule(pool *pgxpool.Pool, bus domainevents.Bus, log *logger.Logger) *Module {
	repo := inapp.NewRepository(pool)
	svc := inapp.NewService(repo, log)
	sub := NewSubscriber(svc, log)
	sub.Register(bus)

	return &Module{
		InApp:      svc,
		subscriber: sub,
	}
}

// SetReengagementMailer enables outbound re-engagement email for inactive
// clients. Wired by the composition root once the email sender and client
// directory exist.
func (m *Module) SetReengagementMailer(mailer email.Sender, clients ports.ClientDirectory, bookingURL string) {
	m.subscriber.SetReengagementMailer(mailer, clients, bookingURL)
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "notification"
}

// RegisterRoutes registers the module's routes under /api/v1/notifications.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	notifications := ctx.Protected.Group("/notifications")
	notifications.GET("", m.list)
	notifications.GET("/unread-count", m.unreadCount)
	notifications.PATCH("/:id/read", m.markRead)
	notifications.PATCH("/read-all", m.markAllRead)
}

func (m *Module) list(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := m.InApp.List(c.Request.Context(), identity.UserID(), 0)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (m *Module) unreadCount(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	count, err := m.InApp.CountUnread(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"unread": count})
}

func (m *Module) markRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	result, err := m.InApp.MarkRead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (m *Module) markAllRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := m.InApp.MarkAllRead(c.Request.Context(), identity.UserID()); httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusNoContent, nil)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
